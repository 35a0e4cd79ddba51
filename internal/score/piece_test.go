package score

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrackTypeIsDrum(t *testing.T) {
	require.False(t, StandardTrack.IsDrum())
	require.True(t, StandardDrumTrack.IsDrum())
	require.False(t, AuxTrack.IsDrum())
	require.True(t, AuxDrumTrack.IsDrum())
}

func TestPruneTracksDropsSilentTracks(t *testing.T) {
	p := Piece{
		Tracks: []Track{
			{Bars: []Bar{{Events: nil}, {Events: nil}}},
			{Bars: []Bar{{Events: []Event{{Pitch: 60}}}}},
		},
	}
	p.PruneTracks()
	require.Len(t, p.Tracks, 1)
	require.Equal(t, 60, p.Tracks[0].Bars[0].Events[0].Pitch)
}

func TestReorderTracks(t *testing.T) {
	p := Piece{Tracks: []Track{{Instrument: 0}, {Instrument: 1}, {Instrument: 2}}}
	p.ReorderTracks([]int{2, 0, 1})
	require.Equal(t, []int{2, 0, 1}, []int{p.Tracks[0].Instrument, p.Tracks[1].Instrument, p.Tracks[2].Instrument})
}

func TestNumBarsAndHasNotes(t *testing.T) {
	var p Piece
	require.Equal(t, 0, p.NumBars())
	require.False(t, p.UpdateHasNotes())

	p.Tracks = []Track{{Bars: []Bar{{}, {}, {}}}}
	require.Equal(t, 3, p.NumBars())
	require.False(t, p.UpdateHasNotes())

	p.Tracks[0].Bars[1].Events = []Event{{Pitch: 40}}
	require.True(t, p.UpdateHasNotes())
}

func TestClassifyStatusTrack(t *testing.T) {
	require.Equal(t, Infill, ClassifyStatusTrack(StatusTrack{
		Selection: Condition,
		Bars:      []StatusBar{{Selection: Condition}, {Selection: Infill}},
	}))
	require.Equal(t, Resample, ClassifyStatusTrack(StatusTrack{
		Selection: Condition,
		Bars:      []StatusBar{{Selection: Condition}, {Selection: Resample}},
	}))
	require.Equal(t, Condition, ClassifyStatusTrack(StatusTrack{Selection: Condition}))
}
