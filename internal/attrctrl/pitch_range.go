package attrctrl

import (
	"github.com/schollz/miditok/internal/score"
	"github.com/schollz/miditok/internal/vocab"
)

// PitchRangeControl tracks a track's min and max note pitch.
type PitchRangeControl struct{ min, max int }

func NewPitchRange() *PitchRangeControl { return &PitchRangeControl{} }

func (c *PitchRangeControl) Name() string                     { return "PitchRange" }
func (c *PitchRangeControl) Level() Level                     { return TrackLevel }
func (c *PitchRangeControl) Applicability() TrackApplicability { return InstrumentAndDrum }
func (c *PitchRangeControl) TokenTypes() []vocab.TokenType {
	return []vocab.TokenType{vocab.PitchRangeMin, vocab.PitchRangeMax}
}

func (c *PitchRangeControl) Compute(p *score.Piece, trackIdx, _ int) {
	t := p.Tracks[trackIdx]
	mn, mx, any := 0, 0, false
	for _, b := range t.Bars {
		for _, e := range b.Events {
			if !any || e.Pitch < mn {
				mn = e.Pitch
			}
			if e.Pitch > mx {
				mx = e.Pitch
			}
			any = true
		}
	}
	c.min, c.max = mn, mx
}

func (c *PitchRangeControl) Values() []int { return []int{c.min, c.max} }
func (c *PitchRangeControl) Override(v []int) {
	c.min, c.max = clamp(v[0], 128), clamp(v[1], 128)
}

func (c *PitchRangeControl) Evaluate(p *score.Piece, trackIdx, _ int) int {
	beforeMin, beforeMax := c.min, c.max
	c.Compute(p, trackIdx, 0)
	d := abs(c.min-beforeMin) + abs(c.max-beforeMax)
	c.min, c.max = beforeMin, beforeMax
	return d
}
