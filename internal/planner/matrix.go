// Package planner ports the multi-step generation planner from
// inference/sampling/multi_step.h: it windows a piece's (track,bar)
// grid into a sequence of model-sized Steps that together cover every
// bar the caller asked to generate.
package planner

// SelectionMatrix is a [track][bar]bool grid, replacing the C++
// cmatrix<T> bitset the original uses for selection/resample/ignore
// masks (Go has no operator overloading, so these are plain slice
// helpers instead of a matrix type with overloaded &/|/~).
type SelectionMatrix [][]bool

// NewSelectionMatrix allocates a numTracks x numBars grid, all false.
func NewSelectionMatrix(numTracks, numBars int) SelectionMatrix {
	m := make(SelectionMatrix, numTracks)
	for i := range m {
		m[i] = make([]bool, numBars)
	}
	return m
}

// And returns the elementwise AND of a and b.
func And(a, b SelectionMatrix) SelectionMatrix {
	out := NewSelectionMatrix(len(a), matrixCols(a))
	for i := range a {
		for j := range a[i] {
			out[i][j] = a[i][j] && b[i][j]
		}
	}
	return out
}

// Not returns the elementwise negation of a.
func Not(a SelectionMatrix) SelectionMatrix {
	out := NewSelectionMatrix(len(a), matrixCols(a))
	for i := range a {
		for j := range a[i] {
			out[i][j] = !a[i][j]
		}
	}
	return out
}

// Or returns the elementwise OR of a and b.
func Or(a, b SelectionMatrix) SelectionMatrix {
	out := NewSelectionMatrix(len(a), matrixCols(a))
	for i := range a {
		for j := range a[i] {
			out[i][j] = a[i][j] || b[i][j]
		}
	}
	return out
}

// Any reports whether any cell of a is true.
func Any(a SelectionMatrix) bool {
	for i := range a {
		for j := range a[i] {
			if a[i][j] {
				return true
			}
		}
	}
	return false
}

// All reports whether every cell of a is true.
func All(a SelectionMatrix) bool {
	for i := range a {
		for j := range a[i] {
			if !a[i][j] {
				return false
			}
		}
	}
	return true
}

func matrixCols(a SelectionMatrix) int {
	if len(a) == 0 {
		return 0
	}
	return len(a[0])
}
