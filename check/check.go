// Package check implements the fatal contract checks shared by the
// containers. A violated precondition is a programmer error: it is logged
// and escalates to a panic carrying a *LogicFailure. Nothing in this module
// recovers from one.
package check

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/rawbytedev/subspace/internal/common"
)

var (
	ErrUnwrapAbsent      = errors.New("unwrap of an absent value")
	ErrIndexOutOfBounds  = errors.New("index out of bounds")
	ErrUseAfterMove      = errors.New("use of a moved-from value")
	ErrCapacityOverflow  = errors.New("capacity exceeds the addressable byte range")
	ErrNullPointer       = errors.New("pointer into an unallocated region")
	ErrNoNeverValue      = errors.New("type has no never-value field")
	ErrNeverValuePattern = errors.New("value carries its type's never-value pattern")
	ErrBadOverlay        = errors.New("invalid never-value overlay")
)

// LogicFailure is the panic value of a violated contract.
type LogicFailure struct {
	Op  string // operation that detected the violation, e.g. "vec.At"
	Err error  // one of the sentinel errors above
	Msg string // optional detail
}

func (f *LogicFailure) Error() string {
	if f.Msg == "" {
		return fmt.Sprintf("%s: %v", f.Op, f.Err)
	}
	return fmt.Sprintf("%s: %v: %s", f.Op, f.Err, f.Msg)
}

func (f *LogicFailure) Unwrap() error { return f.Err }

// Fail reports a contract violation and never returns.
func Fail(op string, err error, format string, args ...any) {
	f := &LogicFailure{Op: op, Err: err}
	if format != "" {
		f.Msg = fmt.Sprintf(format, args...)
	}
	common.Logger().Error("logic failure",
		zap.String("op", op),
		zap.Error(err),
		zap.String("detail", f.Msg),
	)
	panic(f)
}

// That fails with err unless cond holds.
func That(cond bool, op string, err error) {
	if !cond {
		Fail(op, err, "")
	}
}

// Thatf is That with a formatted detail message, built only on failure.
func Thatf(cond bool, op string, err error, format string, args ...any) {
	if !cond {
		Fail(op, err, format, args...)
	}
}

// Recover converts a LogicFailure panic into an error. Other panics are
// re-raised. It is intended for harnesses and tests that drive contract
// violations on purpose.
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if f, ok := r.(*LogicFailure); ok {
		*errp = f
		return
	}
	panic(r)
}
