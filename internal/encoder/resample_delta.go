package encoder

import (
	"math"
	"sort"

	"github.com/schollz/miditok/internal/score"
)

// ResampleDelta rescales every event's onset and duration from
// resolution to decodeResolution ticks-per-quarter, then applies each
// event's microtiming Delta — propagating it onto a predecessor's
// duration instead of moving the onset when the successor's original
// grid position sits exactly on that predecessor's offset, so a
// microtimed note doesn't open a gap against the note before it.
// Ported from encoder_base.h's resample_delta.
func ResampleDelta(p *score.Piece, resolution, decodeResolution int) {
	if resolution <= 0 || decodeResolution <= 0 {
		return
	}
	scale := float64(decodeResolution) / float64(resolution)

	for ti := range p.Tracks {
		for bi := range p.Tracks[ti].Bars {
			bar := &p.Tracks[ti].Bars[bi]
			for ei := range bar.Events {
				bar.Events[ei].Onset = round(float64(bar.Events[ei].Onset) * scale)
				bar.Events[ei].Duration = round(float64(bar.Events[ei].Duration) * scale)
			}

			order := make([]int, len(bar.Events))
			for i := range order {
				order[i] = i
			}
			sort.Slice(order, func(a, b int) bool { return bar.Events[order[a]].Onset < bar.Events[order[b]].Onset })

			for _, i := range order {
				ev := &bar.Events[i]
				if ev.Delta == 0 {
					continue
				}
				propagated := false
				for j := range bar.Events {
					if j == i {
						continue
					}
					pred := &bar.Events[j]
					if pred.Onset+pred.Duration == ev.Onset {
						pred.Duration += ev.Delta
						if pred.Duration < 0 {
							pred.Duration = 0
						}
						propagated = true
						break
					}
				}
				if !propagated {
					ev.Onset += ev.Delta
					if ev.Onset < 0 {
						ev.Onset = 0
					}
				}
				ev.Delta = 0
			}

			sort.Slice(bar.Events, func(a, b int) bool {
				if bar.Events[a].Onset != bar.Events[b].Onset {
					return bar.Events[a].Onset < bar.Events[b].Onset
				}
				return bar.Events[a].Pitch < bar.Events[b].Pitch
			})
		}
	}
}

func round(v float64) int { return int(math.Round(v)) }
