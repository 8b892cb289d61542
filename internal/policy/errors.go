package policy

import (
	"errors"
	"fmt"
)

// Rejection is a business-rule violation: the transaction is invalid and is
// discarded without a state change. The reason is surfaced to the submitter.
type Rejection struct {
	Reason string
}

func (r *Rejection) Error() string { return r.Reason }

// Rejectf builds a Rejection with a formatted reason.
func Rejectf(format string, args ...any) error {
	return &Rejection{Reason: fmt.Sprintf(format, args...)}
}

// IsRejection reports whether err is (or wraps) a business rejection.
func IsRejection(err error) bool {
	var r *Rejection
	return errors.As(err, &r)
}

// Internal is a platform fault: payload decode failure, state gateway error,
// or a write that did not take effect. It indicates an environment problem
// rather than an invalid transaction.
type Internal struct {
	Op  string
	Err error
}

func (e *Internal) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Internal) Unwrap() error { return e.Err }

// WrapInternal classifies err as an internal fault during op.
func WrapInternal(op string, err error) error {
	return &Internal{Op: op, Err: err}
}

// Internalf builds an internal fault with a formatted description.
func Internalf(format string, args ...any) error {
	return &Internal{Op: fmt.Sprintf(format, args...)}
}

// IsInternal reports whether err is (or wraps) an internal fault.
func IsInternal(err error) bool {
	var e *Internal
	return errors.As(err, &e)
}
