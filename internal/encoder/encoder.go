// Package encoder turns a score.Piece into a flat token sequence and
// back, ported from common/encoder/encoder_base.h's ENCODER base class
// and its sole concrete instantiation (the "expressive" encoder wired
// through enums::getEncoder in lib_encoder.h/encoder_all.h).
package encoder

import (
	"errors"
	"sort"

	"github.com/schollz/miditok/internal/attrctrl"
	"github.com/schollz/miditok/internal/midierr"
	"github.com/schollz/miditok/internal/score"
	"github.com/schollz/miditok/internal/tokendomain"
	"github.com/schollz/miditok/internal/vocab"
)

// BarRef names one (track,bar) pair, used to mark which bars get
// encoded as multi-fill placeholders instead of their real content.
type BarRef struct {
	Track, Bar int
}

// Encoder turns a piece into tokens and tokens back into a piece.
type Encoder interface {
	Preprocess(p *score.Piece)
	EncodePiece(p *score.Piece, multiFill []BarRef) ([]int, error)
	DecodeTokens(tokens []int) (*score.Piece, error)
}

// ExpressiveEncoder is the one encoder variant this module implements,
// matching SPEC_FULL.md §8's note that the original source wires
// exactly one encoder through enums::getEncoder.
type ExpressiveEncoder struct {
	rep      *vocab.Representation
	registry *attrctrl.Registry
}

// NewExpressiveEncoder builds an encoder bound to a fixed vocabulary
// and attribute-control registry.
func NewExpressiveEncoder(rep *vocab.Representation, registry *attrctrl.Registry) *ExpressiveEncoder {
	return &ExpressiveEncoder{rep: rep, registry: registry}
}

// Preprocess pairs each onset with the next same-pitch offset in the
// same bar to compute Event.Duration, and force-sets drum onsets to
// duration 1. An offset in a later bar is not paired with an onset of
// an earlier bar. Idempotent: events that already carry a
// nonzero Duration and have no matching offset event are left alone.
// Ported from encoder_base.h's preprocess_piece hook, which the base
// class leaves empty and the expressive encoder fills in concretely.
func (e *ExpressiveEncoder) Preprocess(p *score.Piece) {
	for ti := range p.Tracks {
		track := &p.Tracks[ti]
		isDrum := track.TrackType.IsDrum()
		cursor := 0
		for bi := range track.Bars {
			bar := &track.Bars[bi]
			barLen := barLengthTicks(bar.TimeSignature, p.Resolution)

			type flatEvent struct {
				idx  int
				time int
			}
			var onsets, offsets []flatEvent
			for ei, ev := range bar.Events {
				abs := cursor + ev.Onset
				if ev.Velocity > 0 {
					onsets = append(onsets, flatEvent{ei, abs})
				} else {
					offsets = append(offsets, flatEvent{ei, abs})
				}
			}
			sort.Slice(onsets, func(a, b int) bool { return onsets[a].time < onsets[b].time })
			sort.Slice(offsets, func(a, b int) bool { return offsets[a].time < offsets[b].time })

			consumed := make(map[int]bool, len(offsets))
			for _, on := range onsets {
				if isDrum {
					bar.Events[on.idx].Duration = 1
					continue
				}
				pitch := bar.Events[on.idx].Pitch
				for _, off := range offsets {
					if consumed[off.idx] || off.time <= on.time || bar.Events[off.idx].Pitch != pitch {
						continue
					}
					bar.Events[on.idx].Duration = off.time - on.time
					consumed[off.idx] = true
					break
				}
			}

			kept := bar.Events[:0]
			for ei, ev := range bar.Events {
				if ev.Velocity > 0 {
					kept = append(kept, ev)
				}
				_ = ei
			}
			bar.Events = kept
			cursor += barLen
		}
	}

	for ti, track := range p.Tracks {
		for _, c := range e.registry.AtLevel(attrctrl.TrackPreInstrumentLevel) {
			c.Compute(p, ti, 0)
		}
		for _, c := range e.registry.AtLevel(attrctrl.TrackLevel) {
			if c.Applicability().CheckValidTrack(track.TrackType.IsDrum()) {
				c.Compute(p, ti, 0)
			}
		}
		for bi := range track.Bars {
			for _, c := range e.registry.AtLevel(attrctrl.BarLevel) {
				c.Compute(p, ti, bi)
			}
		}
	}
}

// barLengthTicks is 4*num/den quarters worth of ticks at resolution
// ticks-per-quarter, ported from the BAR::internal_beat_length
// invariant in spec.md §3.
func barLengthTicks(ts score.TimeSignature, resolution int) int {
	if ts.Denominator == 0 {
		return 4 * resolution
	}
	return ts.Numerator * 4 * resolution / ts.Denominator
}

// EncodePiece walks the piece in track/bar order emitting the flat
// token stream described by SPEC_FULL.md §8, then — if multiFill is
// non-empty — appends one BAR/FILL_IN_START/notes/FILL_IN_END block
// per requested (track,bar), ported from encoder_base.h's encode_piece.
func (e *ExpressiveEncoder) EncodePiece(p *score.Piece, multiFill []BarRef) ([]int, error) {
	var tokens []int
	emit := func(tt vocab.TokenType, v int) error {
		if !e.rep.HasTokenType(tt) {
			return nil
		}
		id, err := e.rep.Encode(tt, v)
		if err != nil {
			return err
		}
		tokens = append(tokens, id)
		return nil
	}
	emitControls := func(controls []attrctrl.Control) error {
		for _, c := range controls {
			if gc, ok := c.(*attrctrl.GenreControl); ok {
				id, err := gc.AppendToken(e.rep)
				if err != nil {
					return err
				}
				tokens = append(tokens, id)
				continue
			}
			ids, err := attrctrl.AppendTokens(e.rep, c)
			if err != nil {
				return err
			}
			tokens = append(tokens, ids...)
		}
		return nil
	}

	// PIECE_START carries min(do_multi_fill, 1): 1 whenever this
	// stream will end in trailing FILL_IN blocks, 0 otherwise, ported
	// from encoder_base.h's encode_piece.
	pieceStartValue := 0
	if len(multiFill) > 0 {
		pieceStartValue = 1
	}
	if err := emit(vocab.PieceStart, pieceStartValue); err != nil {
		return nil, err
	}
	// NUM_BARS is optional ("NUM_BARS?" in encode_piece): the domain
	// only holds the pretraining chunk sizes {4,8}, so a piece encoded
	// at another length (e.g. the single-bar round-trip case) simply
	// omits the token rather than failing the whole encode.
	if err := emit(vocab.NumBars, p.NumBars()); err != nil && !errors.Is(err, midierr.ErrValueNotInDomain) {
		return nil, err
	}

	multiSet := make(map[BarRef]bool, len(multiFill))
	for _, bf := range multiFill {
		multiSet[bf] = true
	}

	for ti, track := range p.Tracks {
		if err := emit(vocab.Track, int(track.TrackType)); err != nil {
			return nil, err
		}
		if err := emitControls(e.registry.AtLevel(attrctrl.TrackPreInstrumentLevel)); err != nil {
			return nil, err
		}
		if err := emit(vocab.Instrument, track.Instrument); err != nil {
			return nil, err
		}

		var trackControls []attrctrl.Control
		for _, c := range e.registry.AtLevel(attrctrl.TrackLevel) {
			if c.Applicability().CheckValidTrack(track.TrackType.IsDrum()) {
				trackControls = append(trackControls, c)
			}
		}
		if err := emitControls(trackControls); err != nil {
			return nil, err
		}

		for bi, bar := range track.Bars {
			if err := emit(vocab.Bar, 0); err != nil {
				return nil, err
			}
			if err := emitControls(e.registry.AtLevel(attrctrl.BarLevel)); err != nil {
				return nil, err
			}
			if err := e.emitTimeSignature(&tokens, bar.TimeSignature); err != nil {
				return nil, err
			}
			if multiSet[BarRef{ti, bi}] {
				if err := emit(vocab.FillInPlaceholder, 0); err != nil {
					return nil, err
				}
			} else {
				noteTokens, err := e.encodeNotes(bar, track.TrackType.IsDrum())
				if err != nil {
					return nil, err
				}
				tokens = append(tokens, noteTokens...)
			}
			if err := emit(vocab.BarEnd, 0); err != nil {
				return nil, err
			}
		}
		if err := emit(vocab.TrackEnd, 0); err != nil {
			return nil, err
		}
	}

	for _, bf := range multiFill {
		if bf.Track < 0 || bf.Track >= len(p.Tracks) {
			return nil, midierr.Wrap(midierr.ErrInvalidSelection, "multi-fill track %d out of range", bf.Track)
		}
		track := p.Tracks[bf.Track]
		if bf.Bar < 0 || bf.Bar >= len(track.Bars) {
			return nil, midierr.Wrap(midierr.ErrInvalidSelection, "multi-fill bar %d out of range", bf.Bar)
		}
		bar := track.Bars[bf.Bar]

		if err := emit(vocab.Bar, 0); err != nil {
			return nil, err
		}
		if err := emitControls(e.registry.AtLevel(attrctrl.BarLevel)); err != nil {
			return nil, err
		}
		if err := e.emitTimeSignature(&tokens, bar.TimeSignature); err != nil {
			return nil, err
		}
		if err := emit(vocab.FillInStart, 0); err != nil {
			return nil, err
		}
		noteTokens, err := e.encodeNotes(bar, track.TrackType.IsDrum())
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, noteTokens...)
		if err := emit(vocab.FillInEnd, 0); err != nil {
			return nil, err
		}
	}

	return tokens, nil
}

func (e *ExpressiveEncoder) emitTimeSignature(tokens *[]int, ts score.TimeSignature) error {
	if !e.rep.HasTokenType(vocab.TimeSignature) {
		return nil
	}
	id, err := e.rep.EncodeTimeSig(vocab.TimeSignature, tokendomain.TimeSig{Num: ts.Numerator, Den: ts.Denominator})
	if err != nil {
		return err
	}
	*tokens = append(*tokens, id)
	return nil
}

// encodeNotes groups a bar's events by onset time and emits the
// velocity/delta/onset/duration token chain per time step, ported from
// encoder_base.h's encode_notes.
func (e *ExpressiveEncoder) encodeNotes(bar score.Bar, isDrum bool) ([]int, error) {
	events := append([]score.Event(nil), bar.Events...)
	sort.Slice(events, func(a, b int) bool {
		if events[a].Onset != events[b].Onset {
			return events[a].Onset < events[b].Onset
		}
		return events[a].Pitch < events[b].Pitch
	})

	var tokens []int
	lastVelocityClass := -1
	i := 0
	for i < len(events) {
		time := events[i].Onset
		if time != 0 {
			if e.rep.HasTokenType(vocab.TimeAbsolutePos) {
				id, err := e.rep.Encode(vocab.TimeAbsolutePos, time)
				if err != nil {
					return nil, err
				}
				tokens = append(tokens, id)
			}
		}
		for i < len(events) && events[i].Onset == time {
			ev := events[i]
			if e.rep.HasTokenType(vocab.VelocityLevel) && ev.Velocity != lastVelocityClass {
				id, err := e.rep.Encode(vocab.VelocityLevel, ev.Velocity)
				if err != nil {
					return nil, err
				}
				tokens = append(tokens, id)
				lastVelocityClass = ev.Velocity
			}
			if e.rep.HasTokenType(vocab.Delta) && ev.Delta != 0 {
				if ev.Delta < 0 {
					id, err := e.rep.Encode(vocab.DeltaDirection, 0)
					if err != nil {
						return nil, err
					}
					tokens = append(tokens, id)
				}
				size, err := e.rep.GetDomainSize(vocab.Delta)
				if err != nil {
					return nil, err
				}
				mag := ev.Delta
				if mag < 0 {
					mag = -mag
				}
				if mag > size-1 {
					mag = size - 1
				}
				id, err := e.rep.Encode(vocab.Delta, mag)
				if err != nil {
					return nil, err
				}
				tokens = append(tokens, id)
			}
			id, err := e.rep.Encode(vocab.NoteOnset, ev.Pitch)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, id)

			if !isDrum && e.rep.HasTokenType(vocab.NoteDuration) {
				size, err := e.rep.GetDomainSize(vocab.NoteDuration)
				if err != nil {
					return nil, err
				}
				dur := ev.Duration
				if dur > size {
					dur = size
				}
				dur--
				if dur < 0 {
					dur = 0
				}
				id, err := e.rep.Encode(vocab.NoteDuration, dur)
				if err != nil {
					return nil, err
				}
				tokens = append(tokens, id)
			}
			i++
		}
	}
	return tokens, nil
}
