package attrctrl

import (
	"github.com/schollz/miditok/internal/score"
	"github.com/schollz/miditok/internal/vocab"
)

// BarLevelOnsetDensityControl bins a single bar's note count into the
// 18-class BAR_ONSET_DENSITY domain.
type BarLevelOnsetDensityControl struct{ value int }

func NewBarLevelOnsetDensity() *BarLevelOnsetDensityControl {
	return &BarLevelOnsetDensityControl{}
}

func (c *BarLevelOnsetDensityControl) Name() string                     { return "BarLevelOnsetDensity" }
func (c *BarLevelOnsetDensityControl) Level() Level                     { return BarLevel }
func (c *BarLevelOnsetDensityControl) Applicability() TrackApplicability { return InstrumentAndDrum }
func (c *BarLevelOnsetDensityControl) TokenTypes() []vocab.TokenType {
	return []vocab.TokenType{vocab.BarOnsetDensity}
}

func (c *BarLevelOnsetDensityControl) Compute(p *score.Piece, trackIdx, barIdx int) {
	c.value = clamp(len(p.Tracks[trackIdx].Bars[barIdx].Events), 18)
}

func (c *BarLevelOnsetDensityControl) Values() []int    { return []int{c.value} }
func (c *BarLevelOnsetDensityControl) Override(v []int) { c.value = clamp(v[0], 18) }

func (c *BarLevelOnsetDensityControl) Evaluate(p *score.Piece, trackIdx, barIdx int) int {
	before := c.value
	c.Compute(p, trackIdx, barIdx)
	d := abs(c.value - before)
	c.value = before
	return d
}
