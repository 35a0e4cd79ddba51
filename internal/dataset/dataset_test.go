package dataset

import (
	"path/filepath"
	"testing"

	"github.com/schollz/miditok/internal/score"
	"github.com/stretchr/testify/require"
)

func samplePiece(pitch int) *score.Piece {
	return &score.Piece{
		Resolution: 480,
		Tracks: []score.Track{{
			TrackType: score.StandardTrack,
			Bars: []score.Bar{{
				TimeSignature: score.TimeSignature{Numerator: 4, Denominator: 4},
				Events:        []score.Event{{Onset: 0, Pitch: pitch, Velocity: 100, Duration: 240}},
			}},
		}},
	}
}

func TestWriterReaderRoundTrip(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "data.bin")

	w, err := Create(prefix)
	require.NoError(t, err)
	require.NoError(t, w.Append(Train, samplePiece(60)))
	require.NoError(t, w.Append(Train, samplePiece(64)))
	require.NoError(t, w.Append(Valid, samplePiece(67)))
	require.NoError(t, w.Close())

	r, err := Open(prefix)
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, 2, r.Len(Train))
	require.Equal(t, 1, r.Len(Valid))
	require.Equal(t, 0, r.Len(Test))

	p0, err := r.Read(Train, 0)
	require.NoError(t, err)
	require.Equal(t, 60, p0.Tracks[0].Bars[0].Events[0].Pitch)

	p1, err := r.Read(Train, 1)
	require.NoError(t, err)
	require.Equal(t, 64, p1.Tracks[0].Bars[0].Events[0].Pitch)

	pv, err := r.Read(Valid, 0)
	require.NoError(t, err)
	require.Equal(t, 67, pv.Tracks[0].Bars[0].Events[0].Pitch)
}

func TestReaderOutOfRangeIndexErrors(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "data.bin")
	w, err := Create(prefix)
	require.NoError(t, err)
	require.NoError(t, w.Append(Train, samplePiece(60)))
	require.NoError(t, w.Close())

	r, err := Open(prefix)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Read(Train, 5)
	require.Error(t, err)
}
