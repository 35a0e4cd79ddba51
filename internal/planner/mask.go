package planner

import "github.com/schollz/miditok/internal/score"

// StatusToSelectionMask marks every (track,bar) the caller asked to
// generate (Resample or Infill), ported from
// multi_step_sample.h's status_to_selection_mask.
func StatusToSelectionMask(status score.Status, numBars int) SelectionMatrix {
	m := NewSelectionMatrix(len(status.Tracks), numBars)
	for ti, st := range status.Tracks {
		for bi := 0; bi < numBars; bi++ {
			sel := trackDefaultOrBar(st, bi)
			m[ti][bi] = sel == score.Resample || sel == score.Infill
		}
	}
	return m
}

// StatusToResampleMask marks every (track,bar) explicitly flagged
// Resample, ported from status_to_resample_mask.
func StatusToResampleMask(status score.Status, numBars int) SelectionMatrix {
	m := NewSelectionMatrix(len(status.Tracks), numBars)
	for ti, st := range status.Tracks {
		for bi := 0; bi < numBars; bi++ {
			m[ti][bi] = trackDefaultOrBar(st, bi) == score.Resample
		}
	}
	return m
}

// StatusToIgnoreMask marks every (track,bar) flagged Ignore, ported
// from status_to_ignore_mask.
func StatusToIgnoreMask(status score.Status, numBars int) SelectionMatrix {
	m := NewSelectionMatrix(len(status.Tracks), numBars)
	for ti, st := range status.Tracks {
		for bi := 0; bi < numBars; bi++ {
			m[ti][bi] = trackDefaultOrBar(st, bi) == score.Ignore
		}
	}
	return m
}

func trackDefaultOrBar(st score.StatusTrack, barIdx int) score.SelectionType {
	if barIdx < len(st.Bars) {
		return st.Bars[barIdx].Selection
	}
	return st.Selection
}
