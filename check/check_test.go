package check

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rawbytedev/subspace/internal/common"
)

func TestFailPanicsWithLogicFailure(t *testing.T) {
	require.PanicsWithError(t, "vec.At: index out of bounds: index 4, len 2", func() {
		Thatf(false, "vec.At", ErrIndexOutOfBounds, "index %d, len %d", 4, 2)
	})
	require.PanicsWithError(t, "option.Unwrap: unwrap of an absent value", func() {
		That(false, "option.Unwrap", ErrUnwrapAbsent)
	})
	require.NotPanics(t, func() {
		That(true, "noop", ErrUnwrapAbsent)
		Thatf(true, "noop", ErrUnwrapAbsent, "%d", 1)
	})
}

func TestRecover(t *testing.T) {
	run := func(fn func()) (err error) {
		defer Recover(&err)
		fn()
		return nil
	}
	err := run(func() { Fail("vec.Move", ErrUseAfterMove, "") })
	require.ErrorIs(t, err, ErrUseAfterMove)
	var lf *LogicFailure
	require.True(t, errors.As(err, &lf))
	require.Equal(t, "vec.Move", lf.Op)

	require.NoError(t, run(func() {}))
	require.PanicsWithValue(t, "other", func() {
		_ = run(func() { panic("other") })
	})
}

func TestFailIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	prev := common.SetLogger(zap.New(core))
	defer common.SetLogger(prev)

	require.Panics(t, func() { Fail("vec.Reserve", ErrCapacityOverflow, "capacity %d", 9) })
	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "logic failure", entries[0].Message)
	fields := entries[0].ContextMap()
	require.Equal(t, "vec.Reserve", fields["op"])
	require.Equal(t, "capacity 9", fields["detail"])
}
