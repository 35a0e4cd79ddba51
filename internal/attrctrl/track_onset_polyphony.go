package attrctrl

import (
	"github.com/schollz/miditok/internal/score"
	"github.com/schollz/miditok/internal/vocab"
)

// TrackLevelOnsetPolyphonyControl bins a track's min/max per-bar onset
// polyphony into the coarser 6-class TRACK_ONSET_POLYPHONY_MIN/MAX
// domains (as opposed to PolyphonyQuantileControl's 10-class version).
type TrackLevelOnsetPolyphonyControl struct{ min, max int }

func NewTrackLevelOnsetPolyphony() *TrackLevelOnsetPolyphonyControl {
	return &TrackLevelOnsetPolyphonyControl{}
}

func (c *TrackLevelOnsetPolyphonyControl) Name() string { return "TrackLevelOnsetPolyphony" }
func (c *TrackLevelOnsetPolyphonyControl) Level() Level { return TrackLevel }
func (c *TrackLevelOnsetPolyphonyControl) Applicability() TrackApplicability {
	return InstrumentAndDrum
}
func (c *TrackLevelOnsetPolyphonyControl) TokenTypes() []vocab.TokenType {
	return []vocab.TokenType{vocab.TrackOnsetPolyphonyMin, vocab.TrackOnsetPolyphonyMax}
}

func (c *TrackLevelOnsetPolyphonyControl) Compute(p *score.Piece, trackIdx, _ int) {
	t := p.Tracks[trackIdx]
	mn, mx, any := 0, 0, false
	for _, b := range t.Bars {
		poly := maxPolyphonyInBar(b)
		if !any || poly < mn {
			mn = poly
		}
		if poly > mx {
			mx = poly
		}
		any = true
	}
	c.min, c.max = clamp(mn, 6), clamp(mx, 6)
}

func (c *TrackLevelOnsetPolyphonyControl) Values() []int { return []int{c.min, c.max} }
func (c *TrackLevelOnsetPolyphonyControl) Override(v []int) {
	c.min, c.max = clamp(v[0], 6), clamp(v[1], 6)
}

func (c *TrackLevelOnsetPolyphonyControl) Evaluate(p *score.Piece, trackIdx, _ int) int {
	beforeMin, beforeMax := c.min, c.max
	c.Compute(p, trackIdx, 0)
	d := abs(c.min-beforeMin) + abs(c.max-beforeMax)
	c.min, c.max = beforeMin, beforeMax
	return d
}
