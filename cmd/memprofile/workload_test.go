package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rawbytedev/subspace/mem"
)

func TestWorkloadsRun(t *testing.T) {
	runners := []Runner{
		vecWorkload{Element: "bytewise", Pushes: 100},
		vecWorkload{Element: "owned", Pushes: 100, Reserve: 8},
		vecWorkload{Element: "owned"},
		optionWorkload{Storage: "compact", Count: 9},
		optionWorkload{Storage: "flagged", Count: 9},
	}
	for _, r := range runners {
		t.Run(r.Name(), func(t *testing.T) {
			require.NoError(t, r.Run())
		})
	}
}

func TestWorkloadReleasesRegions(t *testing.T) {
	mem.ResetStats()
	require.NoError(t, vecWorkload{Element: "owned", Pushes: 50}.Run())
	s := mem.Stats()
	require.Equal(t, s.Allocs, s.Frees)
	require.Zero(t, s.LiveBytes)
}

func TestRecordRelocatesByMove(t *testing.T) {
	require.Equal(t, mem.MustMoveAndDestroy, mem.RelocationOf[record]())
}
