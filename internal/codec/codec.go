// Package codec is the binary boundary of the processor: transaction
// payloads arrive as CBOR maps of field name to value, and the persisted
// Record uses the same encoding so storage stays symmetric with the wire.
package codec

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/pluvialabs/rainproc/internal/policy"
)

// ErrBadPayload marks payload bytes that are not a valid CBOR field map.
var ErrBadPayload = errors.New("payload is not a CBOR field map")

// DecodePayload decodes the opaque transaction payload into an untyped
// field map. Failure is an internal fault, not a business rejection.
func DecodePayload(raw []byte) (map[string]any, error) {
	var fields map[string]any
	if err := cbor.Unmarshal(raw, &fields); err != nil {
		return nil, policy.WrapInternal("decode payload", fmt.Errorf("%w: %w", ErrBadPayload, err))
	}
	return fields, nil
}

// EncodePayload encodes a field map for submission. Used by clients and tests.
func EncodePayload(fields map[string]any) ([]byte, error) {
	data, err := cbor.Marshal(fields)
	if err != nil {
		return nil, policy.WrapInternal("encode payload", err)
	}
	return data, nil
}

// EncodeRecord serializes the record stored at one state address.
func EncodeRecord(rec policy.Record) ([]byte, error) {
	data, err := cbor.Marshal(rec)
	if err != nil {
		return nil, policy.WrapInternal("encode record", err)
	}
	return data, nil
}

// DecodeRecord deserializes a stored record. State is written only by
// EncodeRecord, so a decode failure here means corrupted state.
func DecodeRecord(raw []byte) (policy.Record, error) {
	var rec policy.Record
	if err := cbor.Unmarshal(raw, &rec); err != nil {
		return nil, policy.WrapInternal("decode record", err)
	}
	return rec, nil
}
