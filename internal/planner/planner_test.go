package planner

import (
	"errors"
	"testing"

	"github.com/schollz/miditok/internal/midierr"
	"github.com/schollz/miditok/internal/score"
	"github.com/stretchr/testify/require"
)

func statusAllResample(numTracks, numBars int) score.Status {
	st := score.Status{Tracks: make([]score.StatusTrack, numTracks)}
	for i := range st.Tracks {
		st.Tracks[i].Selection = score.Resample
	}
	return st
}

func TestFindStepsCoversEverySelectedBar(t *testing.T) {
	status := statusAllResample(2, 8)
	hp := score.HyperParam{ModelDim: 4, BarsPerStep: 4, TracksPerStep: 1}

	steps, err := FindSteps(status, 8, hp)
	require.NoError(t, err)
	require.NotEmpty(t, steps)

	covered := NewSelectionMatrix(2, 8)
	for _, s := range steps {
		for _, tb := range s.BarsToGenerate {
			covered[tb[0]][tb[1]] = true
		}
	}
	require.True(t, All(covered))
}

func TestFindStepsIgnoredBarsAreNeverGenerated(t *testing.T) {
	status := score.Status{Tracks: []score.StatusTrack{
		{Selection: score.Ignore},
	}}
	steps, err := FindSteps(status, 4, score.DefaultHyperParam())
	require.NoError(t, err)
	for _, s := range steps {
		require.Empty(t, s.BarsToGenerate)
	}
}

func TestFindStepsNoTracksReturnsNoSteps(t *testing.T) {
	steps, err := FindSteps(score.Status{}, 4, score.DefaultHyperParam())
	require.NoError(t, err)
	require.Nil(t, steps)
}

func TestMatricesEqualDetectsCoverageGap(t *testing.T) {
	a := NewSelectionMatrix(1, 2)
	b := NewSelectionMatrix(1, 2)
	a[0][0] = true
	require.False(t, matricesEqual(a, b))
}

// TestS6PlannerAutoregressiveThenInfillWindowing is scenario S6: 2
// tracks x 8 bars, track 0 fully resample, track 1 bars [2..5] infill;
// model_dim=4, bars_per_step=2. Track 0 runs the autoregressive pass
// alone (the whole window fresh at the first step, a 2-bar fresh
// region thereafter); track 1 runs the infill pass alone, centered on its
// selected bars. Every selected cell ends up covered by exactly one
// step.
func TestS6PlannerAutoregressiveThenInfillWindowing(t *testing.T) {
	status := score.Status{Tracks: []score.StatusTrack{
		{Selection: score.Resample},
		{
			Selection: score.Ignore,
			Bars: []score.StatusBar{
				{Selection: score.Ignore}, {Selection: score.Ignore},
				{Selection: score.Infill}, {Selection: score.Infill},
				{Selection: score.Infill}, {Selection: score.Infill},
				{Selection: score.Ignore}, {Selection: score.Ignore},
			},
		},
	}}
	hp := score.HyperParam{ModelDim: 4, BarsPerStep: 2, TracksPerStep: 1}

	steps, err := FindSteps(status, 8, hp)
	require.NoError(t, err)
	require.NotEmpty(t, steps)

	var track0Steps, track1Steps []Step
	for _, s := range steps {
		switch s.Tracks[0] {
		case 0:
			track0Steps = append(track0Steps, s)
		case 1:
			track1Steps = append(track1Steps, s)
		}
	}
	require.NotEmpty(t, track0Steps)
	require.NotEmpty(t, track1Steps)

	// track 0's first step covers the whole model_dim window as fresh
	// content (no context bars at all).
	first := track0Steps[0]
	require.Equal(t, 0, first.BarStart)
	for _, row := range first.ContextMatrix {
		for _, v := range row {
			require.False(t, v)
		}
	}

	covered := NewSelectionMatrix(2, 8)
	for _, s := range steps {
		for _, tb := range s.BarsToGenerate {
			covered[tb[0]][tb[1]] = true
		}
	}
	for b := 0; b < 8; b++ {
		require.True(t, covered[0][b], "track 0 bar %d should be generated", b)
	}
	for b := 2; b <= 5; b++ {
		require.True(t, covered[1][b], "track 1 bar %d should be infilled", b)
	}
	require.False(t, covered[1][0])
	require.False(t, covered[1][1])
	require.False(t, covered[1][6])
	require.False(t, covered[1][7])
}

func TestFindStepsShortPiecesCoveredOrCoverageIncomplete(t *testing.T) {
	status := statusAllResample(1, 3)
	_, err := FindSteps(status, 3, score.HyperParam{ModelDim: 4, BarsPerStep: 4, TracksPerStep: 1})
	require.NoError(t, err)

	status = statusAllResample(1, 1)
	hp := score.HyperParam{ModelDim: 1, BarsPerStep: 1, TracksPerStep: 1}
	_, err = FindSteps(status, 1, hp)
	if err != nil {
		require.True(t, errors.Is(err, midierr.ErrCoverageIncomplete))
	}
}
