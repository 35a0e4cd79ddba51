package attrctrl

import (
	"github.com/schollz/miditok/internal/score"
	"github.com/schollz/miditok/internal/vocab"
)

// NoteDensityControl bins a track's overall notes-per-bar rate into
// DENSITY_LEVEL's 10 classes.
type NoteDensityControl struct{ value int }

func NewNoteDensity() *NoteDensityControl { return &NoteDensityControl{} }

func (c *NoteDensityControl) Name() string                     { return "NoteDensity" }
func (c *NoteDensityControl) Level() Level                     { return TrackLevel }
func (c *NoteDensityControl) Applicability() TrackApplicability { return InstrumentAndDrum }
func (c *NoteDensityControl) TokenTypes() []vocab.TokenType     { return []vocab.TokenType{vocab.DensityLevel} }

func (c *NoteDensityControl) Compute(p *score.Piece, trackIdx, _ int) {
	t := p.Tracks[trackIdx]
	if len(t.Bars) == 0 {
		c.value = 0
		return
	}
	total := 0
	for _, b := range t.Bars {
		total += len(b.Events)
	}
	avgPerBar := total / len(t.Bars)
	c.value = clamp(avgPerBar, 10)
}

func (c *NoteDensityControl) Values() []int      { return []int{c.value} }
func (c *NoteDensityControl) Override(v []int)   { c.value = clamp(v[0], 10) }

func (c *NoteDensityControl) Evaluate(p *score.Piece, trackIdx, _ int) int {
	before := c.value
	c.Compute(p, trackIdx, 0)
	got := c.value
	c.value = before
	d := got - before
	if d < 0 {
		d = -d
	}
	return d
}
