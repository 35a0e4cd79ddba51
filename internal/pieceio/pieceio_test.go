package pieceio

import (
	"testing"

	"github.com/schollz/miditok/internal/score"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalPieceRoundTrips(t *testing.T) {
	p := &score.Piece{
		Resolution: 480,
		Genre:      "jazz",
		Tracks: []score.Track{{
			TrackType: score.StandardTrack,
			Bars: []score.Bar{{
				TimeSignature: score.TimeSignature{Numerator: 4, Denominator: 4},
				Events:        []score.Event{{Onset: 0, Pitch: 60, Velocity: 100, Duration: 240}},
			}},
		}},
	}

	data, err := MarshalPiece(p)
	require.NoError(t, err)

	decoded, err := UnmarshalPiece(data)
	require.NoError(t, err)
	require.Equal(t, p.Resolution, decoded.Resolution)
	require.Equal(t, p.Genre, decoded.Genre)
	require.Equal(t, p.Tracks[0].Bars[0].Events[0].Pitch, decoded.Tracks[0].Bars[0].Events[0].Pitch)
}

func TestUnmarshalPieceRejectsUnknownField(t *testing.T) {
	_, err := UnmarshalPiece([]byte(`{"resolution":480,"bogus_field":1}`))
	require.Error(t, err)
}

func TestMarshalUnmarshalHyperParamRoundTrips(t *testing.T) {
	h := score.DefaultHyperParam()
	data, err := MarshalHyperParam(&h)
	require.NoError(t, err)

	decoded, err := UnmarshalHyperParam(data)
	require.NoError(t, err)
	require.Equal(t, h, *decoded)
}
