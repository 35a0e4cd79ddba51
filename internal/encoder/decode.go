package encoder

import "github.com/schollz/miditok/internal/score"
import "github.com/schollz/miditok/internal/vocab"

// DecodeTokens replays a flat token stream and rebuilds a Piece.
// Ported from encoder_base.h's decode, simplified relative to the
// original: the C++ decoder tracks an "offset_remain" list so a note
// whose duration runs past the bar boundary gets its offset attached
// to a later bar and rescaled into that bar's own resolution. This
// port instead keeps Duration as a flat tick count on the onset event
// (score.Event has no separate offset record — see spec.md §3's Event
// shape) and does not reattach overrunning durations across a bar
// line; a duration longer than its bar is kept as-is rather than
// split. Every other decode rule (drum onset without a duration token,
// TIME_SIGNATURE updating the active meter, BAR resetting the clock)
// is preserved.
func (e *ExpressiveEncoder) DecodeTokens(tokens []int) (*score.Piece, error) {
	p := &score.Piece{}

	var curTrack score.Track
	var curBar score.Bar
	var curTick int
	curVelocity := 100
	var pendingDeltaMagnitude int
	var pendingDeltaNegative bool
	var trackIsDrum bool

	for _, id := range tokens {
		dec, err := e.rep.Decode(id)
		if err != nil {
			return nil, err
		}
		switch dec.Type {
		case vocab.Track:
			curTrack = score.Track{TrackType: score.TrackType(dec.IntValue)}
			trackIsDrum = curTrack.TrackType.IsDrum()
			curVelocity = 100
		case vocab.Genre:
			p.Genre = dec.StringValue
		case vocab.Instrument:
			curTrack.Instrument = dec.IntValue
		case vocab.Bar, vocab.FillInStart:
			curBar = score.Bar{}
			curTick = 0
			pendingDeltaMagnitude = 0
			pendingDeltaNegative = false
		case vocab.TimeSignature:
			curBar.TimeSignature = score.TimeSignature{Numerator: dec.TimeSigValue.Num, Denominator: dec.TimeSigValue.Den}
		case vocab.TimeAbsolutePos:
			curTick = dec.IntValue
		case vocab.VelocityLevel:
			curVelocity = dec.IntValue
		case vocab.DeltaDirection:
			pendingDeltaNegative = true
		case vocab.Delta:
			pendingDeltaMagnitude = dec.IntValue
		case vocab.NoteOnset:
			delta := pendingDeltaMagnitude
			if pendingDeltaNegative {
				delta = -delta
			}
			ev := score.Event{Onset: curTick, Pitch: dec.IntValue, Velocity: curVelocity, Delta: delta}
			if trackIsDrum {
				ev.Duration = 1
			}
			curBar.Events = append(curBar.Events, ev)
			pendingDeltaMagnitude = 0
			pendingDeltaNegative = false
		case vocab.NoteDuration:
			if n := len(curBar.Events); n > 0 {
				curBar.Events[n-1].Duration = dec.IntValue + 1
			}
		case vocab.BarEnd:
			curTrack.Bars = append(curTrack.Bars, curBar)
		case vocab.TrackEnd:
			p.Tracks = append(p.Tracks, curTrack)
		}
	}
	return p, nil
}
