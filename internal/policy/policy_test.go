package policy

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseVerb(t *testing.T) {
	for s, want := range map[string]Verb{
		"buy":       VerbBuy,
		"calculate": VerbCalculate,
		"getData":   VerbGetData,
	} {
		v, err := ParseVerb(s)
		require.NoError(t, err)
		require.Equal(t, want, v)
		require.Equal(t, s, v.String())
	}

	_, err := ParseVerb("sell")
	require.Error(t, err)
	require.True(t, IsRejection(err))
}

func TestErrorKindsAreDisjoint(t *testing.T) {
	rej := Rejectf("bad field %q", "mail")
	require.True(t, IsRejection(rej))
	require.False(t, IsInternal(rej))
	require.Equal(t, `bad field "mail"`, rej.Error())

	fault := WrapInternal("state get", fmt.Errorf("connection refused"))
	require.True(t, IsInternal(fault))
	require.False(t, IsRejection(fault))
	require.Contains(t, fault.Error(), "state get")

	wrapped := fmt.Errorf("apply: %w", rej)
	require.True(t, IsRejection(wrapped))
}
