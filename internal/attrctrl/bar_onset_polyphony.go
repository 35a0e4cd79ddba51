package attrctrl

import (
	"github.com/schollz/miditok/internal/score"
	"github.com/schollz/miditok/internal/vocab"
)

// BarLevelOnsetPolyphonyControl bins a single bar's onset polyphony
// into a min/max pair over the (deliberately coarse, 6-class)
// BAR_ONSET_POLYPHONY_MIN/MAX domain; for a single bar min==max, but
// the control keeps the pair shape to stay structurally symmetric
// with TrackLevelOnsetPolyphonyControl. Domain size 6 is confirmed
// intentional per spec.md §9 Open Questions, not a typo for 10.
type BarLevelOnsetPolyphonyControl struct{ min, max int }

func NewBarLevelOnsetPolyphony() *BarLevelOnsetPolyphonyControl {
	return &BarLevelOnsetPolyphonyControl{}
}

func (c *BarLevelOnsetPolyphonyControl) Name() string                     { return "BarLevelOnsetPolyphony" }
func (c *BarLevelOnsetPolyphonyControl) Level() Level                     { return BarLevel }
func (c *BarLevelOnsetPolyphonyControl) Applicability() TrackApplicability { return InstrumentAndDrum }
func (c *BarLevelOnsetPolyphonyControl) TokenTypes() []vocab.TokenType {
	return []vocab.TokenType{vocab.BarOnsetPolyphonyMin, vocab.BarOnsetPolyphonyMax}
}

func (c *BarLevelOnsetPolyphonyControl) Compute(p *score.Piece, trackIdx, barIdx int) {
	poly := maxPolyphonyInBar(p.Tracks[trackIdx].Bars[barIdx])
	c.min, c.max = clamp(poly, 6), clamp(poly, 6)
}

func (c *BarLevelOnsetPolyphonyControl) Values() []int { return []int{c.min, c.max} }
func (c *BarLevelOnsetPolyphonyControl) Override(v []int) {
	c.min, c.max = clamp(v[0], 6), clamp(v[1], 6)
}

func (c *BarLevelOnsetPolyphonyControl) Evaluate(p *score.Piece, trackIdx, barIdx int) int {
	beforeMin, beforeMax := c.min, c.max
	c.Compute(p, trackIdx, barIdx)
	d := abs(c.min-beforeMin) + abs(c.max-beforeMax)
	c.min, c.max = beforeMin, beforeMax
	return d
}
