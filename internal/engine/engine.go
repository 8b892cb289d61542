// Package engine computes the next state record for a validated
// transaction. It never writes state itself and never mutates its input, so
// a rejection leaves nothing to roll back.
package engine

import (
	"github.com/pluvialabs/rainproc/internal/config"
	"github.com/pluvialabs/rainproc/internal/policy"
)

type Engine struct {
	floor   uint64
	ceiling uint64
}

func New(cfg *config.Config) *Engine {
	return &Engine{floor: cfg.RefundFloor, ceiling: cfg.RefundCeiling}
}

// refundOp is a bounds-checked arithmetic operator over the refund field.
// calculate and getData differ only in the operator they pass to adjust.
type refundOp func(current, delta uint64) (uint64, error)

// Apply maps (current record, validated fields) to the next record.
func (e *Engine) Apply(rec policy.Record, f *policy.Fields) (policy.Record, error) {
	next := make(policy.Record, len(rec)+1)
	for id, entry := range rec {
		next[id] = entry
	}

	switch f.Verb {
	case policy.VerbBuy:
		if _, ok := next[f.Purchase]; ok {
			return nil, policy.Rejectf("purchase %q already in state", f.Purchase)
		}
		next[f.Purchase] = f.Entry()
		return next, nil
	case policy.VerbCalculate:
		return e.adjust(next, f.Purchase, f.Refund, e.subtract)
	case policy.VerbGetData:
		return e.adjust(next, f.Purchase, f.Refund, e.add)
	default:
		// The validator only produces the three verbs above; an impossible
		// value still fails closed rather than writing state.
		return nil, policy.Rejectf("unrecognized verb %q", f.Verb)
	}
}

func (e *Engine) adjust(next policy.Record, purchase string, delta uint64, op refundOp) (policy.Record, error) {
	entry, ok := next[purchase]
	if !ok {
		return nil, policy.Rejectf("purchase %q not in state", purchase)
	}
	refund, err := op(entry.Refund, delta)
	if err != nil {
		return nil, err
	}
	entry.Refund = refund
	next[purchase] = entry
	return next, nil
}

func (e *Engine) subtract(current, delta uint64) (uint64, error) {
	if delta > current || current-delta < e.floor {
		return 0, policy.Rejectf("refund %d - %d falls below floor %d", current, delta, e.floor)
	}
	return current - delta, nil
}

func (e *Engine) add(current, delta uint64) (uint64, error) {
	result := current + delta
	if result < current || result > e.ceiling {
		return 0, policy.Rejectf("refund %d + %d exceeds ceiling %d", current, delta, e.ceiling)
	}
	return result, nil
}
