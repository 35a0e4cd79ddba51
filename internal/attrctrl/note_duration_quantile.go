package attrctrl

import (
	"github.com/schollz/miditok/internal/score"
	"github.com/schollz/miditok/internal/vocab"
)

// NoteDurationQuantileControl bins a track's min and max note duration
// class into MIN_NOTE_DURATION/MAX_NOTE_DURATION's 6 classes.
type NoteDurationQuantileControl struct{ min, max int }

func NewNoteDurationQuantile() *NoteDurationQuantileControl {
	return &NoteDurationQuantileControl{}
}

func (c *NoteDurationQuantileControl) Name() string                     { return "NoteDurationQuantile" }
func (c *NoteDurationQuantileControl) Level() Level                     { return TrackLevel }
func (c *NoteDurationQuantileControl) Applicability() TrackApplicability { return InstrumentAndDrum }
func (c *NoteDurationQuantileControl) TokenTypes() []vocab.TokenType {
	return []vocab.TokenType{vocab.MinNoteDuration, vocab.MaxNoteDuration}
}

func (c *NoteDurationQuantileControl) Compute(p *score.Piece, trackIdx, _ int) {
	t := p.Tracks[trackIdx]
	mn, mx, any := 5, 0, false
	for _, b := range t.Bars {
		for _, e := range b.Events {
			cls := classifyDurationClass(e.Duration, p.Resolution)
			if !any || cls < mn {
				mn = cls
			}
			if cls > mx {
				mx = cls
			}
			any = true
		}
	}
	if !any {
		mn, mx = 0, 0
	}
	c.min, c.max = mn, mx
}

func (c *NoteDurationQuantileControl) Values() []int { return []int{c.min, c.max} }
func (c *NoteDurationQuantileControl) Override(v []int) {
	c.min, c.max = clamp(v[0], 6), clamp(v[1], 6)
}

func (c *NoteDurationQuantileControl) Evaluate(p *score.Piece, trackIdx, _ int) int {
	beforeMin, beforeMax := c.min, c.max
	c.Compute(p, trackIdx, 0)
	d := abs(c.min-beforeMin) + abs(c.max-beforeMax)
	c.min, c.max = beforeMin, beforeMax
	return d
}
