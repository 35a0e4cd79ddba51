package planner

import (
	"github.com/schollz/miditok/internal/midierr"
	"github.com/schollz/miditok/internal/score"
)

// BarMapping records where one bar inside a Step's window lands in the
// full piece, ported from multi_step.h's STEP::bar_mapping
// (track,bar,window_track,window_bar) tuples.
type BarMapping struct {
	Track, Bar             int
	WindowTrack, WindowBar int
}

// Step is one batch of bars the sampler should generate together: a
// contiguous bar window, which tracks participate, which (track,bar)
// cells inside that window are freshly generated vs. held as fixed
// context, and the bar-mapping back into the full piece. Ported from
// multi_step.h's STEP class; StepMatrix/ContextMatrix are the local
// [len(Tracks)][BarEnd-BarStart] views §4.7 calls step_matrix/
// context_matrix.
type Step struct {
	Tracks         []int
	BarStart       int
	BarEnd         int // exclusive
	StepMatrix     [][]bool
	ContextMatrix  [][]bool
	BarsToGenerate [][2]int // (track,bar), global coordinates
	BarMapping     []BarMapping
}

func normalizeHyperParam(hp score.HyperParam) score.HyperParam {
	if hp.ModelDim <= 0 {
		hp.ModelDim = 4
	}
	if hp.BarsPerStep <= 0 {
		hp.BarsPerStep = hp.ModelDim
	}
	if hp.TracksPerStep <= 0 {
		hp.TracksPerStep = 1
	}
	return hp
}

// FindSteps windows status's selected (track,bar) grid into Steps,
// ported from multi_step.h's find_steps_inner two-pass algorithm: an
// autoregressive pass over selection & resample, then an infill pass
// over selection & !resample, per §4.7.
func FindSteps(status score.Status, numBars int, hp score.HyperParam) ([]Step, error) {
	hp = normalizeHyperParam(hp)
	numTracks := len(status.Tracks)
	if numTracks == 0 || numBars == 0 {
		return nil, nil
	}

	selection := StatusToSelectionMask(status, numBars)
	resample := StatusToResampleMask(status, numBars)
	ignore := StatusToIgnoreMask(status, numBars)

	arSelection := And(selection, resample)
	infillSelection := And(selection, Not(resample))

	generated := NewSelectionMatrix(numTracks, numBars)

	var steps []Step
	steps = append(steps, runPass(arSelection, ignore, generated, numTracks, numBars, hp, true)...)
	steps = append(steps, runPass(infillSelection, ignore, generated, numTracks, numBars, hp, false)...)

	covered := And(selection, generated)
	if !matricesEqual(covered, selection) {
		return steps, midierr.Wrap(midierr.ErrCoverageIncomplete, "piece is only partially covered")
	}
	return steps, nil
}

// runPass windows one pass (autoregressive or infill) of passSelection
// into Steps, mutating generated in place so the other pass (and later
// columns of this one) never re-generate a cell. Ported from
// find_steps_inner's per-pass block iteration.
func runPass(passSelection, ignore, generated SelectionMatrix, numTracks, numBars int, hp score.HyperParam, autoregressive bool) []Step {
	modelDim := hp.ModelDim
	if modelDim > numBars {
		modelDim = numBars
	}
	barsPerStep := hp.BarsPerStep
	if barsPerStep > modelDim {
		barsPerStep = modelDim
	}
	numContext := modelDim - barsPerStep

	var steps []Step
	for groupStart := 0; groupStart < numTracks; groupStart += hp.TracksPerStep {
		groupEnd := groupStart + hp.TracksPerStep
		if groupEnd > numTracks {
			groupEnd = numTracks
		}
		tracks := make([]int, 0, groupEnd-groupStart)
		for t := groupStart; t < groupEnd; t++ {
			tracks = append(tracks, t)
		}

		if !groupHasSelection(passSelection, tracks) {
			continue
		}
		startColumn := firstSelectedColumn(passSelection, tracks, numBars)

		first := true
		col := startColumn
		for iter := 0; iter < numBars+1; iter++ {
			var t, kernelStart, kernelEnd int
			if autoregressive {
				if first {
					t = minInt(startColumn, numBars-modelDim)
					kernelStart, kernelEnd = t, t+modelDim
				} else {
					t = minInt(col, numBars-modelDim)
					kernelStart, kernelEnd = t+numContext, t+modelDim
				}
			} else {
				t = clampInt(col-numContext/2, 0, numBars-modelDim)
				kernelStart = col
				kernelEnd = col + barsPerStep
			}
			if t < 0 {
				t = 0
			}

			stepMatrix := newLocalBoolMatrix(len(tracks), modelDim)
			contextMatrix := newLocalBoolMatrix(len(tracks), modelDim)
			var mapping []BarMapping
			for li, trk := range tracks {
				for b := t; b < t+modelDim && b < numBars; b++ {
					local := b - t
					if b >= kernelStart && b < kernelEnd && passSelection[trk][b] && !generated[trk][b] {
						stepMatrix[li][local] = true
						generated[trk][b] = true
						mapping = append(mapping, BarMapping{Track: trk, Bar: b, WindowTrack: li, WindowBar: local})
					}
				}
			}
			for li, trk := range tracks {
				for b := t; b < t+modelDim && b < numBars; b++ {
					local := b - t
					if stepMatrix[li][local] || ignore[trk][b] {
						continue
					}
					contextMatrix[li][local] = true
				}
			}

			if len(mapping) > 0 {
				steps = append(steps, Step{
					Tracks:         tracks,
					BarStart:       t,
					BarEnd:         t + modelDim,
					StepMatrix:     stepMatrix,
					ContextMatrix:  contextMatrix,
					BarsToGenerate: mappingPairs(mapping),
					BarMapping:     mapping,
				})
			}

			if !groupHasRemaining(passSelection, generated, tracks, numBars) {
				break
			}
			col += barsPerStep
			first = false
		}
	}
	return steps
}

func newLocalBoolMatrix(rows, cols int) [][]bool {
	m := make([][]bool, rows)
	for i := range m {
		m[i] = make([]bool, cols)
	}
	return m
}

func mappingPairs(mapping []BarMapping) [][2]int {
	if len(mapping) == 0 {
		return nil
	}
	out := make([][2]int, len(mapping))
	for i, bm := range mapping {
		out[i] = [2]int{bm.Track, bm.Bar}
	}
	return out
}

func groupHasSelection(sel SelectionMatrix, tracks []int) bool {
	for _, trk := range tracks {
		for _, v := range sel[trk] {
			if v {
				return true
			}
		}
	}
	return false
}

func groupHasRemaining(sel, generated SelectionMatrix, tracks []int, numBars int) bool {
	for _, trk := range tracks {
		for b := 0; b < numBars; b++ {
			if sel[trk][b] && !generated[trk][b] {
				return true
			}
		}
	}
	return false
}

func firstSelectedColumn(sel SelectionMatrix, tracks []int, numBars int) int {
	for b := 0; b < numBars; b++ {
		for _, trk := range tracks {
			if sel[trk][b] {
				return b
			}
		}
	}
	return 0
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func matricesEqual(a, b SelectionMatrix) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}
