// Package attrctrl implements the attribute controls: named,
// independently maskable features of a piece/track/bar that a caller
// can pin before sampling, or that get appended as conditioning tokens
// during encoding. Ported from common/encoder/attribute_control.h,
// replacing its field-name-based protobuf reflection with typed Go
// closures per control (spec.md's design note on ATTRIBUTE_CONTROL's
// token_types_v2 mechanism).
package attrctrl

import (
	"github.com/schollz/miditok/internal/midierr"
	"github.com/schollz/miditok/internal/score"
	"github.com/schollz/miditok/internal/vocab"
)

// Level is the granularity a control operates at, ported from
// ATTRIBUTE_CONTROL_LEVEL.
type Level int

const (
	PieceLevel Level = iota
	TrackLevel
	TrackPreInstrumentLevel
	BarLevel
)

// TrackApplicability restricts a control to instrument tracks, drum
// tracks, both, or neither (piece-level controls), ported from
// ATTRIBUTE_CONTROL_TRACK_TYPE.
type TrackApplicability int

const (
	InstrumentOnly TrackApplicability = iota
	DrumOnly
	InstrumentAndDrum
	NotTrackSpecific
)

// CheckValidTrack reports whether a is compatible with a track of the
// given drum-ness, ported from ATTRIBUTE_CONTROL::check_valid_track.
func (a TrackApplicability) CheckValidTrack(isDrum bool) bool {
	switch a {
	case DrumOnly:
		return isDrum
	case InstrumentOnly:
		return !isDrum
	case InstrumentAndDrum:
		return true
	default:
		return false
	}
}

// Control is one attribute control: a named feature (or small group of
// related features) readable from a Piece and writable as override
// tokens. TokenTypes/Values/Override operate in lockstep: Values()[i]
// is the current value for TokenTypes()[i].
type Control interface {
	Name() string
	Level() Level
	Applicability() TrackApplicability
	TokenTypes() []vocab.TokenType

	// Compute recomputes Values() from p. trackIdx/barIdx are ignored
	// unless Level() requires them.
	Compute(p *score.Piece, trackIdx, barIdx int)

	// Values returns the control's current values, one per
	// TokenTypes() entry, after the most recent Compute or Override.
	Values() []int

	// Override replaces Values() with caller-pinned values (already
	// 0-based domain values, one per TokenTypes() entry).
	Override(values []int)

	// Evaluate scores a built piece/track/bar against this control's
	// currently pinned Values(), returning the sum of absolute
	// deviations across its token types (0 = exact match). Ported
	// from ATTRIBUTE_CONTROL::evaluate_track_feature and friends.
	Evaluate(p *score.Piece, trackIdx, barIdx int) int
}

// AppendTokens encodes c's current Values() as token ids, in
// TokenTypes() order, ported from ATTRIBUTE_CONTROL::append_*_tokens's
// default implementation.
func AppendTokens(rep *vocab.Representation, c Control) ([]int, error) {
	types := c.TokenTypes()
	values := c.Values()
	out := make([]int, 0, len(types))
	for i, tt := range types {
		id, err := rep.Encode(tt, values[i])
		if err != nil {
			return nil, midierr.Wrap(midierr.ErrInvalidField, "control %s: %v", c.Name(), err)
		}
		out = append(out, id)
	}
	return out, nil
}

// SetMask unmasks exactly c's current Values() for each of its token
// types, ported from the default set_track_mask/set_bar_mask (which
// "unmasks exactly value").
func SetMask(rep *vocab.Representation, c Control, mask []int) error {
	types := c.TokenTypes()
	values := c.Values()
	for i, tt := range types {
		if err := rep.SetMask(tt, []int{values[i]}, mask, 1); err != nil {
			return midierr.Wrap(midierr.ErrInvalidField, "control %s: %v", c.Name(), err)
		}
	}
	return nil
}

// Registry is the fixed, ordered set of every attribute control,
// matching encoder_all.h's concatenation order for appending
// track-pre-instrument / track / bar tokens.
type Registry struct {
	controls []Control
}

// NewRegistry builds the default registry: Genre before INSTRUMENT,
// then the track-level controls, then the bar-level controls.
func NewRegistry(genres []string) *Registry {
	return &Registry{controls: []Control{
		NewGenre(genres),
		NewNoteDensity(),
		NewPolyphonyQuantile(),
		NewNoteDurationQuantile(),
		NewTrackLevelOnsetPolyphony(),
		NewTrackLevelOnsetDensity(),
		NewTrackLevelNoteDuration(),
		NewPitchRange(),
		NewBarLevelOnsetPolyphony(),
		NewBarLevelOnsetDensity(),
	}}
}

// All returns every registered control.
func (r *Registry) All() []Control { return r.controls }

// AtLevel returns the controls active at the given level, in
// registration order.
func (r *Registry) AtLevel(level Level) []Control {
	var out []Control
	for _, c := range r.controls {
		if c.Level() == level {
			out = append(out, c)
		}
	}
	return out
}

// clamp keeps a classified bucket index inside [0,classes).
func clamp(v, classes int) int {
	if v < 0 {
		return 0
	}
	if v >= classes {
		return classes - 1
	}
	return v
}

// classifyDurationClass buckets a note duration (in ticks) into one of
// 6 classes relative to a quarter-note resolution: sixteenth or
// shorter, eighth, quarter, half, whole, longer than a whole note.
func classifyDurationClass(durationTicks, resolution int) int {
	if resolution <= 0 {
		resolution = 1
	}
	switch {
	case durationTicks <= resolution/4:
		return 0
	case durationTicks <= resolution/2:
		return 1
	case durationTicks <= resolution:
		return 2
	case durationTicks <= resolution*2:
		return 3
	case durationTicks <= resolution*4:
		return 4
	default:
		return 5
	}
}

// maxPolyphonyInBar counts the largest number of simultaneously
// sounding notes in a bar (by onset overlap), the shared primitive
// behind every *OnsetPolyphony control.
func maxPolyphonyInBar(b score.Bar) int {
	type edge struct {
		t    int
		kind int // +1 onset, -1 offset
	}
	var edges []edge
	for _, e := range b.Events {
		edges = append(edges, edge{e.Onset, 1}, edge{e.Onset + e.Duration, -1})
	}
	// stable-ish sort: offsets before onsets at the same tick so a
	// note ending exactly when another begins doesn't double count.
	for i := 1; i < len(edges); i++ {
		for j := i; j > 0; j-- {
			a, bb := edges[j-1], edges[j]
			if a.t > bb.t || (a.t == bb.t && a.kind > bb.kind) {
				edges[j-1], edges[j] = edges[j], edges[j-1]
			} else {
				break
			}
		}
	}
	cur, max := 0, 0
	for _, e := range edges {
		cur += e.kind
		if cur > max {
			max = cur
		}
	}
	return max
}
