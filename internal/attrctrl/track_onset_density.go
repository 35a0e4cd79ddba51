package attrctrl

import (
	"github.com/schollz/miditok/internal/score"
	"github.com/schollz/miditok/internal/vocab"
)

// TrackLevelOnsetDensityControl bins a track's min/max per-bar onset
// count into the 18-class TRACK_ONSET_DENSITY_MIN/MAX domains.
type TrackLevelOnsetDensityControl struct{ min, max int }

func NewTrackLevelOnsetDensity() *TrackLevelOnsetDensityControl {
	return &TrackLevelOnsetDensityControl{}
}

func (c *TrackLevelOnsetDensityControl) Name() string { return "TrackLevelOnsetDensity" }
func (c *TrackLevelOnsetDensityControl) Level() Level { return TrackLevel }
func (c *TrackLevelOnsetDensityControl) Applicability() TrackApplicability {
	return InstrumentAndDrum
}
func (c *TrackLevelOnsetDensityControl) TokenTypes() []vocab.TokenType {
	return []vocab.TokenType{vocab.TrackOnsetDensityMin, vocab.TrackOnsetDensityMax}
}

func (c *TrackLevelOnsetDensityControl) Compute(p *score.Piece, trackIdx, _ int) {
	t := p.Tracks[trackIdx]
	mn, mx, any := 0, 0, false
	for _, b := range t.Bars {
		n := len(b.Events)
		if !any || n < mn {
			mn = n
		}
		if n > mx {
			mx = n
		}
		any = true
	}
	c.min, c.max = clamp(mn, 18), clamp(mx, 18)
}

func (c *TrackLevelOnsetDensityControl) Values() []int { return []int{c.min, c.max} }
func (c *TrackLevelOnsetDensityControl) Override(v []int) {
	c.min, c.max = clamp(v[0], 18), clamp(v[1], 18)
}

// Evaluate intentionally compares only the min value, not max,
// reproducing TrackLevelOnsetDensity::evaluate_track_feature's
// oversight in the original source (spec.md §9 Open Questions: kept
// as-is, not fixed).
func (c *TrackLevelOnsetDensityControl) Evaluate(p *score.Piece, trackIdx, _ int) int {
	beforeMin := c.min
	c.Compute(p, trackIdx, 0)
	d := abs(c.min - beforeMin)
	c.min = beforeMin
	return d
}
