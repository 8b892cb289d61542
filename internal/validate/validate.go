// Package validate turns a decoded, untyped payload into a typed field set,
// rejecting on the first violation. Checks run in a fixed order so a payload
// with several problems always reports the same reason.
package validate

import (
	"math"
	"strconv"
	"strings"

	"github.com/pluvialabs/rainproc/internal/config"
	"github.com/pluvialabs/rainproc/internal/policy"
)

type Validator struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Validator {
	return &Validator{cfg: cfg}
}

// Validate checks every required field of the payload against its type,
// range and format constraints. Presence is map-key existence, so a zero
// refund or total validates while a missing one rejects.
func (v *Validator) Validate(raw map[string]any) (*policy.Fields, error) {
	f := &policy.Fields{}

	verb, err := requireString(raw, "verb")
	if err != nil {
		return nil, err
	}
	if f.Verb, err = policy.ParseVerb(verb); err != nil {
		return nil, err
	}

	if f.Name, err = requireString(raw, "name"); err != nil {
		return nil, err
	}
	if len(f.Name) > v.cfg.MaxNameLength {
		return nil, policy.Rejectf("name exceeds %d characters", v.cfg.MaxNameLength)
	}

	if f.Mail, err = requireString(raw, "mail"); err != nil {
		return nil, err
	}
	if !strings.Contains(f.Mail, "@") {
		return nil, policy.Rejectf("mail %q does not contain @", f.Mail)
	}

	if f.BankAccount, err = requireUint(raw, "bankAccount"); err != nil {
		return nil, err
	}
	if digitCount(f.BankAccount) != v.cfg.BankDigits {
		return nil, policy.Rejectf("bankAccount must have exactly %d digits", v.cfg.BankDigits)
	}

	if f.PlaceAddress, err = requireString(raw, "placeAddress"); err != nil {
		return nil, err
	}
	if f.Town, err = requireString(raw, "town"); err != nil {
		return nil, err
	}
	if f.Province, err = requireString(raw, "province"); err != nil {
		return nil, err
	}
	if f.CheckinDate, err = requireString(raw, "checkinDate"); err != nil {
		return nil, err
	}
	if f.CheckoutDate, err = requireString(raw, "checkoutDate"); err != nil {
		return nil, err
	}

	if f.Days, err = requireInt(raw, "days"); err != nil {
		return nil, err
	}

	if f.RainAmount, err = requireString(raw, "rainAmount"); err != nil {
		return nil, err
	}
	if f.StartHour, err = requireString(raw, "startHour"); err != nil {
		return nil, err
	}
	if f.EndHour, err = requireString(raw, "endHour"); err != nil {
		return nil, err
	}

	if f.Refund, err = requireUint(raw, "refund"); err != nil {
		return nil, err
	}
	if f.Refund < v.cfg.RefundFloor || f.Refund > v.cfg.RefundCeiling {
		return nil, policy.Rejectf("refund %d outside [%d, %d]", f.Refund, v.cfg.RefundFloor, v.cfg.RefundCeiling)
	}

	if f.Purchase, err = requireString(raw, "purchase"); err != nil {
		return nil, err
	}

	if f.Total, err = requireFloat(raw, "total"); err != nil {
		return nil, err
	}

	return f, nil
}

func requireString(raw map[string]any, key string) (string, error) {
	val, ok := raw[key]
	if !ok {
		return "", policy.Rejectf("missing field %q", key)
	}
	s, ok := val.(string)
	if !ok || s == "" {
		return "", policy.Rejectf("field %q must be a non-empty string", key)
	}
	return s, nil
}

// requireUint accepts the integer shapes a CBOR decode can produce, plus a
// decimal string, since submitters serialize numbers inconsistently.
func requireUint(raw map[string]any, key string) (uint64, error) {
	val, ok := raw[key]
	if !ok {
		return 0, policy.Rejectf("missing field %q", key)
	}
	switch n := val.(type) {
	case uint64:
		return n, nil
	case int64:
		if n < 0 {
			return 0, policy.Rejectf("field %q must not be negative", key)
		}
		return uint64(n), nil
	case int:
		if n < 0 {
			return 0, policy.Rejectf("field %q must not be negative", key)
		}
		return uint64(n), nil
	case float64:
		if n < 0 || n != math.Trunc(n) || n > math.MaxUint64 {
			return 0, policy.Rejectf("field %q must be an unsigned integer", key)
		}
		return uint64(n), nil
	case string:
		u, err := strconv.ParseUint(n, 10, 64)
		if err != nil {
			return 0, policy.Rejectf("field %q must be an unsigned integer", key)
		}
		return u, nil
	}
	return 0, policy.Rejectf("field %q must be an unsigned integer", key)
}

func requireInt(raw map[string]any, key string) (int64, error) {
	val, ok := raw[key]
	if !ok {
		return 0, policy.Rejectf("missing field %q", key)
	}
	switch n := val.(type) {
	case int64:
		return n, nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, policy.Rejectf("field %q must be an integer", key)
		}
		return int64(n), nil
	case int:
		return int64(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, policy.Rejectf("field %q must be an integer", key)
		}
		return int64(n), nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, policy.Rejectf("field %q must be an integer", key)
		}
		return i, nil
	}
	return 0, policy.Rejectf("field %q must be an integer", key)
}

func requireFloat(raw map[string]any, key string) (float64, error) {
	val, ok := raw[key]
	if !ok {
		return 0, policy.Rejectf("missing field %q", key)
	}
	switch n := val.(type) {
	case float64:
		return n, nil
	case uint64:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	}
	return 0, policy.Rejectf("field %q must be numeric", key)
}

func digitCount(v uint64) int {
	if v == 0 {
		return 1
	}
	n := 0
	for v > 0 {
		v /= 10
		n++
	}
	return n
}
