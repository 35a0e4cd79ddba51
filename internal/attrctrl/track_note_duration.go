package attrctrl

import (
	"github.com/schollz/miditok/internal/score"
	"github.com/schollz/miditok/internal/vocab"
)

// TrackLevelNoteDurationControl reports, as 6 independent booleans,
// whether a track contains at least one note in each of the 6
// duration classes (see classifyDurationClass).
type TrackLevelNoteDurationControl struct{ present [6]int }

func NewTrackLevelNoteDuration() *TrackLevelNoteDurationControl {
	return &TrackLevelNoteDurationControl{}
}

func (c *TrackLevelNoteDurationControl) Name() string { return "TrackLevelNoteDuration" }
func (c *TrackLevelNoteDurationControl) Level() Level { return TrackLevel }
func (c *TrackLevelNoteDurationControl) Applicability() TrackApplicability {
	return InstrumentAndDrum
}
func (c *TrackLevelNoteDurationControl) TokenTypes() []vocab.TokenType {
	return []vocab.TokenType{
		vocab.HasNoteDurationClass0, vocab.HasNoteDurationClass1, vocab.HasNoteDurationClass2,
		vocab.HasNoteDurationClass3, vocab.HasNoteDurationClass4, vocab.HasNoteDurationClass5,
	}
}

func (c *TrackLevelNoteDurationControl) Compute(p *score.Piece, trackIdx, _ int) {
	t := p.Tracks[trackIdx]
	c.present = [6]int{}
	for _, b := range t.Bars {
		for _, e := range b.Events {
			c.present[classifyDurationClass(e.Duration, p.Resolution)] = 1
		}
	}
}

func (c *TrackLevelNoteDurationControl) Values() []int {
	return c.present[:]
}

func (c *TrackLevelNoteDurationControl) Override(v []int) {
	for i := 0; i < 6 && i < len(v); i++ {
		if v[i] != 0 {
			c.present[i] = 1
		} else {
			c.present[i] = 0
		}
	}
}

func (c *TrackLevelNoteDurationControl) Evaluate(p *score.Piece, trackIdx, _ int) int {
	before := c.present
	c.Compute(p, trackIdx, 0)
	d := 0
	for i := range before {
		d += abs(c.present[i] - before[i])
	}
	c.present = before
	return d
}
