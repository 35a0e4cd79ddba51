package encoder

import (
	"testing"

	"github.com/schollz/miditok/internal/attrctrl"
	"github.com/schollz/miditok/internal/score"
	"github.com/schollz/miditok/internal/vocab"
	"github.com/stretchr/testify/require"
)

func buildEncoder(t *testing.T) (*ExpressiveEncoder, *vocab.Representation) {
	t.Helper()
	opt := vocab.DefaultVocabOptions()
	rep := vocab.New(vocab.DefaultTokenTypeSpecs(opt))
	registry := attrctrl.NewRegistry(opt.Genres)
	return NewExpressiveEncoder(rep, registry), rep
}

func samplePiece() *score.Piece {
	return &score.Piece{
		Resolution: 480,
		Genre:      "rock",
		Tracks: []score.Track{
			{
				TrackType:  score.StandardTrack,
				Instrument: 0,
				Bars: []score.Bar{
					{
						TimeSignature: score.TimeSignature{Numerator: 4, Denominator: 4},
						Events: []score.Event{
							{Onset: 0, Pitch: 60, Velocity: 100, Duration: 240},
							{Onset: 240, Pitch: 64, Velocity: 100, Duration: 240},
						},
					},
				},
			},
		},
	}
}

func TestEncodeDecodeRoundTripPreservesPitches(t *testing.T) {
	enc, _ := buildEncoder(t)
	piece := samplePiece()
	enc.Preprocess(piece)

	tokens, err := enc.EncodePiece(piece, nil)
	require.NoError(t, err)
	require.NotEmpty(t, tokens)

	decoded, err := enc.DecodeTokens(tokens)
	require.NoError(t, err)
	require.Len(t, decoded.Tracks, 1)
	require.Len(t, decoded.Tracks[0].Bars, 1)

	var pitches []int
	for _, ev := range decoded.Tracks[0].Bars[0].Events {
		pitches = append(pitches, ev.Pitch)
	}
	require.Equal(t, []int{60, 64}, pitches)
	require.Equal(t, "rock", decoded.Genre)
}

func TestEncodePieceWithMultiFillEmitsPlaceholder(t *testing.T) {
	enc, rep := buildEncoder(t)
	piece := samplePiece()
	enc.Preprocess(piece)

	tokens, err := enc.EncodePiece(piece, []BarRef{{Track: 0, Bar: 0}})
	require.NoError(t, err)

	foundPlaceholder, foundFillStart := false, false
	for _, id := range tokens {
		dec, err := rep.Decode(id)
		require.NoError(t, err)
		if dec.Type == vocab.FillInPlaceholder {
			foundPlaceholder = true
		}
		if dec.Type == vocab.FillInStart {
			foundFillStart = true
		}
	}
	require.True(t, foundPlaceholder)
	require.True(t, foundFillStart)
}

func TestResolveBarInfillTokensSplicesNotes(t *testing.T) {
	enc, rep := buildEncoder(t)
	piece := samplePiece()
	enc.Preprocess(piece)

	tokens, err := enc.EncodePiece(piece, []BarRef{{Track: 0, Bar: 0}})
	require.NoError(t, err)

	resolved, err := enc.ResolveBarInfillTokens(tokens)
	require.NoError(t, err)

	for _, id := range resolved {
		dec, err := rep.Decode(id)
		require.NoError(t, err)
		require.NotEqual(t, vocab.FillInPlaceholder, dec.Type)
		require.NotEqual(t, vocab.FillInStart, dec.Type)
		require.NotEqual(t, vocab.FillInEnd, dec.Type)
	}

	decoded, err := enc.DecodeTokens(resolved)
	require.NoError(t, err)
	require.NotEmpty(t, decoded.Tracks[0].Bars[0].Events)
}

func TestPreprocessForcesDrumDurationToOne(t *testing.T) {
	enc, _ := buildEncoder(t)
	piece := &score.Piece{
		Resolution: 480,
		Tracks: []score.Track{
			{
				TrackType: score.StandardDrumTrack,
				Bars: []score.Bar{{
					TimeSignature: score.TimeSignature{Numerator: 4, Denominator: 4},
					Events:        []score.Event{{Onset: 0, Pitch: 36, Velocity: 100}},
				}},
			},
		},
	}
	enc.Preprocess(piece)
	require.Equal(t, 1, piece.Tracks[0].Bars[0].Events[0].Duration)
}

// TestS1EncodeRoundTripSingleBar is scenario S1: a single-track, 4/4,
// resolution-12 bar with one note (onset 0, duration 12) decodes back
// to the same event.
func TestS1EncodeRoundTripSingleBar(t *testing.T) {
	enc, _ := buildEncoder(t)
	piece := &score.Piece{
		Resolution: 12,
		Tracks: []score.Track{{
			TrackType: score.StandardTrack,
			Bars: []score.Bar{{
				TimeSignature: score.TimeSignature{Numerator: 4, Denominator: 4},
				Events:        []score.Event{{Onset: 0, Pitch: 60, Velocity: 100, Duration: 12}},
			}},
		}},
	}
	enc.Preprocess(piece)

	tokens, err := enc.EncodePiece(piece, nil)
	require.NoError(t, err)

	decoded, err := enc.DecodeTokens(tokens)
	require.NoError(t, err)
	require.Len(t, decoded.Tracks[0].Bars[0].Events, 1)
	ev := decoded.Tracks[0].Bars[0].Events[0]
	require.Equal(t, 0, ev.Onset)
	require.Equal(t, 60, ev.Pitch)
	require.Equal(t, 12, ev.Duration)
}

// TestS2DrumSynthesizesOffsetDuration is scenario S2: a drum onset
// with no explicit duration decodes as if followed by its implied
// note-off one tick later. This repo keeps that as Duration=1 on the
// onset event (score.Event has no separate offset record) rather than
// materializing a second (1,36,0) event, equivalent information under
// §3's Event shape.
func TestS2DrumSynthesizesOffsetDuration(t *testing.T) {
	enc, _ := buildEncoder(t)
	piece := &score.Piece{
		Resolution: 12,
		Tracks: []score.Track{{
			TrackType: score.StandardDrumTrack,
			Bars: []score.Bar{{
				TimeSignature: score.TimeSignature{Numerator: 4, Denominator: 4},
				Events:        []score.Event{{Onset: 0, Pitch: 36, Velocity: 100}},
			}},
		}},
	}
	enc.Preprocess(piece)

	tokens, err := enc.EncodePiece(piece, nil)
	require.NoError(t, err)

	decoded, err := enc.DecodeTokens(tokens)
	require.NoError(t, err)
	require.Len(t, decoded.Tracks[0].Bars[0].Events, 1)
	ev := decoded.Tracks[0].Bars[0].Events[0]
	require.Equal(t, 0, ev.Onset)
	require.Equal(t, 36, ev.Pitch)
	require.Equal(t, 100, ev.Velocity)
	require.Equal(t, 1, ev.Duration)
}

// TestS3MultiFillStructuralOrder is scenario S3: two tracks x two
// bars, multi-fill set {(0,1),(1,0)}, encodes two FILL_IN_PLACEHOLDERs
// in structural order followed by two FILL_IN_START...END blocks after
// the last TRACK_END, and resolve_bar_infill_tokens consumes all of
// them.
func TestS3MultiFillStructuralOrder(t *testing.T) {
	enc, rep := buildEncoder(t)
	note := func(onset int) score.Bar {
		return score.Bar{
			TimeSignature: score.TimeSignature{Numerator: 4, Denominator: 4},
			Events:        []score.Event{{Onset: onset, Pitch: 60, Velocity: 100, Duration: 240}},
		}
	}
	piece := &score.Piece{
		Resolution: 480,
		Tracks: []score.Track{
			{TrackType: score.StandardTrack, Bars: []score.Bar{note(0), note(0)}},
			{TrackType: score.StandardTrack, Bars: []score.Bar{note(0), note(0)}},
		},
	}
	enc.Preprocess(piece)

	tokens, err := enc.EncodePiece(piece, []BarRef{{Track: 0, Bar: 1}, {Track: 1, Bar: 0}})
	require.NoError(t, err)

	var types []vocab.TokenType
	for _, id := range tokens {
		dec, err := rep.Decode(id)
		require.NoError(t, err)
		types = append(types, dec.Type)
	}

	placeholderCount, fillStartCount, fillEndCount := 0, 0, 0
	lastTrackEnd, firstFillStart := -1, -1
	for i, tt := range types {
		switch tt {
		case vocab.FillInPlaceholder:
			placeholderCount++
		case vocab.FillInStart:
			fillStartCount++
			if firstFillStart == -1 {
				firstFillStart = i
			}
		case vocab.FillInEnd:
			fillEndCount++
		case vocab.TrackEnd:
			lastTrackEnd = i
		}
	}
	require.Equal(t, 2, placeholderCount)
	require.Equal(t, 2, fillStartCount)
	require.Equal(t, 2, fillEndCount)
	require.Greater(t, firstFillStart, lastTrackEnd, "fill-in blocks must trail every TRACK_END")

	resolved, err := enc.ResolveBarInfillTokens(tokens)
	require.NoError(t, err)
	for _, id := range resolved {
		dec, err := rep.Decode(id)
		require.NoError(t, err)
		require.NotEqual(t, vocab.FillInPlaceholder, dec.Type)
		require.NotEqual(t, vocab.FillInStart, dec.Type)
		require.NotEqual(t, vocab.FillInEnd, dec.Type)
	}
}

func TestResampleDeltaPropagatesIntoPredecessorOffset(t *testing.T) {
	piece := &score.Piece{
		Resolution: 480,
		Tracks: []score.Track{{
			TrackType: score.StandardTrack,
			Bars: []score.Bar{{
				TimeSignature: score.TimeSignature{Numerator: 4, Denominator: 4},
				Events: []score.Event{
					{Onset: 0, Pitch: 60, Velocity: 100, Duration: 240},
					{Onset: 240, Pitch: 62, Velocity: 100, Duration: 240, Delta: -10},
				},
			}},
		}},
	}
	ResampleDelta(piece, 480, 480)
	require.Equal(t, 230, piece.Tracks[0].Bars[0].Events[0].Duration)
	require.Equal(t, 240, piece.Tracks[0].Bars[0].Events[1].Onset)
}
