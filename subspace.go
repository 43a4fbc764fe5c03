// Package subspace is a value-container memory model for Go.
//
// The subpackages build on each other:
//
//   - mem classifies how values relocate, finds never-value fields, runs
//     move and destroy hooks and owns the global allocation surface.
//   - option provides Option (explicit discriminant) and Compact (no
//     discriminant, absence stored in the payload's never-value).
//   - vec provides Vec, a growable sequence that relocates by byte copy or
//     by per-value move and destroy depending on the element type.
//   - check carries LogicFailure, the panic raised on a violated contract.
//
// This package only configures diagnostics.
package subspace

import (
	"go.uber.org/zap"

	"github.com/rawbytedev/subspace/internal/common"
)

// SetLogger routes diagnostics (logic failures, Vec growth) to l and
// returns the previous logger. The default discards everything; nil
// restores it.
func SetLogger(l *zap.Logger) *zap.Logger {
	return common.SetLogger(l)
}

// Logger returns the logger installed with SetLogger.
func Logger() *zap.Logger {
	return common.Logger()
}
