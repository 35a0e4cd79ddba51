package attrctrl

import (
	"github.com/schollz/miditok/internal/score"
	"github.com/schollz/miditok/internal/vocab"
)

// PolyphonyQuantileControl bins a track's min and max per-bar onset
// polyphony into MIN_POLYPHONY/MAX_POLYPHONY's 10 classes.
type PolyphonyQuantileControl struct{ min, max int }

func NewPolyphonyQuantile() *PolyphonyQuantileControl { return &PolyphonyQuantileControl{} }

func (c *PolyphonyQuantileControl) Name() string                     { return "PolyphonyQuantile" }
func (c *PolyphonyQuantileControl) Level() Level                     { return TrackLevel }
func (c *PolyphonyQuantileControl) Applicability() TrackApplicability { return InstrumentAndDrum }
func (c *PolyphonyQuantileControl) TokenTypes() []vocab.TokenType {
	return []vocab.TokenType{vocab.MinPolyphony, vocab.MaxPolyphony}
}

func (c *PolyphonyQuantileControl) Compute(p *score.Piece, trackIdx, _ int) {
	t := p.Tracks[trackIdx]
	if len(t.Bars) == 0 {
		c.min, c.max = 0, 0
		return
	}
	mn, mx := -1, 0
	for _, b := range t.Bars {
		poly := maxPolyphonyInBar(b)
		if mn == -1 || poly < mn {
			mn = poly
		}
		if poly > mx {
			mx = poly
		}
	}
	if mn == -1 {
		mn = 0
	}
	c.min, c.max = clamp(mn, 10), clamp(mx, 10)
}

func (c *PolyphonyQuantileControl) Values() []int { return []int{c.min, c.max} }
func (c *PolyphonyQuantileControl) Override(v []int) {
	c.min, c.max = clamp(v[0], 10), clamp(v[1], 10)
}

func (c *PolyphonyQuantileControl) Evaluate(p *score.Piece, trackIdx, _ int) int {
	beforeMin, beforeMax := c.min, c.max
	c.Compute(p, trackIdx, 0)
	d := abs(c.min-beforeMin) + abs(c.max-beforeMax)
	c.min, c.max = beforeMin, beforeMax
	return d
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
