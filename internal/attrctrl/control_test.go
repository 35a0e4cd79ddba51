package attrctrl

import (
	"testing"

	"github.com/schollz/miditok/internal/score"
	"github.com/schollz/miditok/internal/vocab"
	"github.com/stretchr/testify/require"
)

func samplePiece() *score.Piece {
	return &score.Piece{
		Resolution: 12,
		Genre:      "jazz",
		Tracks: []score.Track{
			{
				TrackType: score.StandardTrack,
				Bars: []score.Bar{
					{Events: []score.Event{{Onset: 0, Pitch: 60, Velocity: 80, Duration: 12}, {Onset: 0, Pitch: 64, Velocity: 80, Duration: 12}}},
					{Events: []score.Event{{Onset: 0, Pitch: 67, Velocity: 80, Duration: 24}}},
				},
			},
		},
	}
}

func TestMaxPolyphonyInBar(t *testing.T) {
	p := samplePiece()
	require.Equal(t, 2, maxPolyphonyInBar(p.Tracks[0].Bars[0]))
	require.Equal(t, 1, maxPolyphonyInBar(p.Tracks[0].Bars[1]))
}

func TestPolyphonyQuantileCompute(t *testing.T) {
	p := samplePiece()
	c := NewPolyphonyQuantile()
	c.Compute(p, 0, 0)
	require.Equal(t, []int{1, 2}, c.Values())
}

func TestPitchRangeCompute(t *testing.T) {
	p := samplePiece()
	c := NewPitchRange()
	c.Compute(p, 0, 0)
	require.Equal(t, []int{60, 67}, c.Values())
}

func TestTrackLevelOnsetDensityEvaluateOversightIgnoresMax(t *testing.T) {
	p := samplePiece()
	c := NewTrackLevelOnsetDensity()
	c.Compute(p, 0, 0)
	c.Override([]int{c.min, c.max + 5}) // pin a max far from reality
	d := c.Evaluate(p, 0, 0)
	require.Equal(t, 0, d, "evaluate must ignore max, matching the preserved original oversight")
}

func TestGenreControlRoundTrip(t *testing.T) {
	p := samplePiece()
	c := NewGenre(vocab.DefaultGenres())
	c.Compute(p, 0, 0)
	require.Equal(t, "jazz", c.ValueString())

	specs := vocab.DefaultTokenTypeSpecs(vocab.DefaultVocabOptions())
	rep := vocab.New(specs)
	id, err := c.AppendToken(rep)
	require.NoError(t, err)
	dec, err := rep.Decode(id)
	require.NoError(t, err)
	require.Equal(t, "jazz", dec.StringValue)
}

func TestAppendTokensGeneric(t *testing.T) {
	p := samplePiece()
	specs := vocab.DefaultTokenTypeSpecs(vocab.DefaultVocabOptions())
	rep := vocab.New(specs)

	c := NewBarLevelOnsetDensity()
	c.Compute(p, 0, 0)
	ids, err := AppendTokens(rep, c)
	require.NoError(t, err)
	require.Len(t, ids, 1)

	mask := rep.GetMask(0)
	require.NoError(t, SetMask(rep, c, mask))
	sum := 0
	for _, v := range mask {
		sum += v
	}
	require.Equal(t, 1, sum)
}

func TestCheckValidTrack(t *testing.T) {
	require.True(t, InstrumentAndDrum.CheckValidTrack(true))
	require.True(t, InstrumentAndDrum.CheckValidTrack(false))
	require.False(t, DrumOnly.CheckValidTrack(false))
	require.False(t, InstrumentOnly.CheckValidTrack(true))
}
