package subspace

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rawbytedev/subspace/vec"
)

func TestSetLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := zap.New(core)
	prev := SetLogger(l)
	defer SetLogger(prev)
	require.Same(t, l, Logger())

	var v vec.Vec[int]
	v.Push(1)
	require.Equal(t, 1, logs.FilterMessage("vec grow").Len())

	SetLogger(nil)
	require.NotNil(t, Logger())
	v.Extend(2, 3, 4)
	require.Equal(t, 1, logs.Len())
}
