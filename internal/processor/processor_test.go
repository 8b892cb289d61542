package processor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pluvialabs/rainproc/internal/codec"
	"github.com/pluvialabs/rainproc/internal/config"
	"github.com/pluvialabs/rainproc/internal/policy"
	"github.com/pluvialabs/rainproc/internal/state"
)

func testConfig() *config.Config {
	return &config.Config{
		FamilyName:    "rainsurance",
		FamilyVersion: "1.0",
		MaxNameLength: 20,
		BankDigits:    16,
		RefundFloor:   0,
		RefundCeiling: 4294967295,
	}
}

func testProcessor(t *testing.T, store state.Store) *Processor {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(testConfig(), store, logger)
}

func txPayload(t *testing.T, verb, purchase string, refund uint64) []byte {
	t.Helper()
	data, err := codec.EncodePayload(map[string]any{
		"verb":         verb,
		"name":         "Ana",
		"mail":         "a@x.com",
		"bankAccount":  uint64(1234567890123456),
		"placeAddress": "Calle Mayor 1",
		"town":         "Santander",
		"province":     "Cantabria",
		"checkinDate":  "2026-06-01",
		"checkoutDate": "2026-06-08",
		"days":         int64(7),
		"rainAmount":   "moderate",
		"startHour":    "10:00",
		"endHour":      "18:00",
		"refund":       refund,
		"purchase":     purchase,
		"total":        float64(500),
	})
	require.NoError(t, err)
	return data
}

func TestRegistrationMetadata(t *testing.T) {
	p := testProcessor(t, state.NewMemStore())

	require.Equal(t, "rainsurance", p.FamilyName())
	require.Equal(t, []string{"1.0"}, p.FamilyVersions())
	require.Len(t, p.Namespaces(), 1)
	require.Len(t, p.Namespaces()[0], 6)
}

func TestBuyStoresEntry(t *testing.T) {
	store := state.NewMemStore()
	p := testProcessor(t, store)
	ctx := context.Background()

	receipt, err := p.Apply(ctx, txPayload(t, "buy", "P1", 0))
	require.NoError(t, err)
	require.Equal(t, "buy", receipt.Verb)
	require.Equal(t, "P1", receipt.Purchase)
	require.Equal(t, uint64(0), receipt.Refund)
	require.Len(t, receipt.Address, 70)

	// Stored bytes decode back to the full record.
	raw, err := store.Get(ctx, receipt.Address)
	require.NoError(t, err)
	rec, err := codec.DecodeRecord(raw)
	require.NoError(t, err)
	require.Equal(t, "Ana", rec["P1"].Name)
	require.Equal(t, uint64(0), rec["P1"].Refund)

	entry, err := p.Lookup(ctx, "P1")
	require.NoError(t, err)
	require.NotNil(t, entry)
	require.Equal(t, "Ana", entry.Name)
}

func TestBuyDuplicateRejected(t *testing.T) {
	p := testProcessor(t, state.NewMemStore())
	ctx := context.Background()

	_, err := p.Apply(ctx, txPayload(t, "buy", "P1", 0))
	require.NoError(t, err)

	_, err = p.Apply(ctx, txPayload(t, "buy", "P1", 0))
	require.Error(t, err)
	require.True(t, policy.IsRejection(err))
	require.Contains(t, err.Error(), "already in state")
}

func TestCalculateUnderflowRejectedWithoutWrite(t *testing.T) {
	store := state.NewMemStore()
	p := testProcessor(t, store)
	ctx := context.Background()

	_, err := p.Apply(ctx, txPayload(t, "buy", "P1", 0))
	require.NoError(t, err)

	_, err = p.Apply(ctx, txPayload(t, "calculate", "P1", 100))
	require.Error(t, err)
	require.True(t, policy.IsRejection(err))

	// Fails closed: the stored refund is untouched.
	entry, err := p.Lookup(ctx, "P1")
	require.NoError(t, err)
	require.Equal(t, uint64(0), entry.Refund)
}

func TestGetDataThenCalculate(t *testing.T) {
	p := testProcessor(t, state.NewMemStore())
	ctx := context.Background()

	_, err := p.Apply(ctx, txPayload(t, "buy", "P1", 10))
	require.NoError(t, err)

	receipt, err := p.Apply(ctx, txPayload(t, "getData", "P1", 90))
	require.NoError(t, err)
	require.Equal(t, uint64(100), receipt.Refund)

	receipt, err = p.Apply(ctx, txPayload(t, "calculate", "P1", 60))
	require.NoError(t, err)
	require.Equal(t, uint64(40), receipt.Refund)
}

func TestGetDataOverflowRejected(t *testing.T) {
	p := testProcessor(t, state.NewMemStore())
	ctx := context.Background()

	_, err := p.Apply(ctx, txPayload(t, "buy", "P1", 1))
	require.NoError(t, err)

	_, err = p.Apply(ctx, txPayload(t, "getData", "P1", 4294967295))
	require.Error(t, err)
	require.True(t, policy.IsRejection(err))
	require.Contains(t, err.Error(), "exceeds ceiling")
}

func TestCalculateAbsentPurchaseRejected(t *testing.T) {
	p := testProcessor(t, state.NewMemStore())

	_, err := p.Apply(context.Background(), txPayload(t, "calculate", "NOPE", 1))
	require.Error(t, err)
	require.True(t, policy.IsRejection(err))
	require.Contains(t, err.Error(), "not in state")
}

func TestUnknownVerbRejected(t *testing.T) {
	p := testProcessor(t, state.NewMemStore())

	payload, err := codec.EncodePayload(map[string]any{"verb": "unknown"})
	require.NoError(t, err)

	_, err = p.Apply(context.Background(), payload)
	require.Error(t, err)
	require.True(t, policy.IsRejection(err))
	require.Contains(t, err.Error(), "unrecognized verb")
}

func TestUndecodablePayloadIsInternal(t *testing.T) {
	p := testProcessor(t, state.NewMemStore())

	_, err := p.Apply(context.Background(), []byte{0xff, 0x13, 0x37})
	require.Error(t, err)
	require.True(t, policy.IsInternal(err))
	require.True(t, errors.Is(err, codec.ErrBadPayload))
}

func TestLookupAbsent(t *testing.T) {
	p := testProcessor(t, state.NewMemStore())

	entry, err := p.Lookup(context.Background(), "NOPE")
	require.NoError(t, err)
	require.Nil(t, entry)
}

// silentWriteStore acknowledges writes without reporting any address, which
// the processor must treat as a platform fault.
type silentWriteStore struct {
	*state.MemStore
}

func (s *silentWriteStore) Set(ctx context.Context, address string, data []byte) ([]string, error) {
	return nil, nil
}

func TestEmptyWriteSetIsInternal(t *testing.T) {
	p := testProcessor(t, &silentWriteStore{state.NewMemStore()})

	_, err := p.Apply(context.Background(), txPayload(t, "buy", "P1", 0))
	require.Error(t, err)
	require.True(t, policy.IsInternal(err))
	require.Contains(t, err.Error(), "no addresses written")
}

// failingStore simulates a gateway outage.
type failingStore struct {
	*state.MemStore
}

func (s *failingStore) Get(ctx context.Context, address string) ([]byte, error) {
	return nil, errors.New("gateway down")
}

func TestStoreErrorIsInternal(t *testing.T) {
	p := testProcessor(t, &failingStore{state.NewMemStore()})

	_, err := p.Apply(context.Background(), txPayload(t, "buy", "P1", 0))
	require.Error(t, err)
	require.True(t, policy.IsInternal(err))
	require.False(t, policy.IsRejection(err))
}

func TestDistinctPurchasesCoexist(t *testing.T) {
	store := state.NewMemStore()
	p := testProcessor(t, store)
	ctx := context.Background()

	_, err := p.Apply(ctx, txPayload(t, "buy", "P1", 5))
	require.NoError(t, err)
	_, err = p.Apply(ctx, txPayload(t, "buy", "P2", 7))
	require.NoError(t, err)

	e1, err := p.Lookup(ctx, "P1")
	require.NoError(t, err)
	require.Equal(t, uint64(5), e1.Refund)

	e2, err := p.Lookup(ctx, "P2")
	require.NoError(t, err)
	require.Equal(t, uint64(7), e2.Refund)
}
