package sampler

import (
	"context"
	"testing"

	"github.com/schollz/miditok/internal/grammar"
	"github.com/schollz/miditok/internal/modelapi"
	"github.com/schollz/miditok/internal/vocab"
	"github.com/stretchr/testify/require"
)

func buildRep(t *testing.T) *vocab.Representation {
	t.Helper()
	return vocab.New(vocab.DefaultTokenTypeSpecs(vocab.DefaultVocabOptions()))
}

func TestGenerateProducesOneRowPerBatch(t *testing.T) {
	rep := buildRep(t)
	newGraph := func() *grammar.RepresentationGraph {
		return grammar.NewRepresentationGraph(rep, grammar.TrackModel, nil)
	}
	pieceStartID, err := rep.Encode(vocab.PieceStart, 0)
	require.NoError(t, err)

	model := modelapi.NewStub(rep.VocabSize())
	opt := Options{BatchSize: 3, MaxSteps: 5, Temperature: 1, SamplingSeed: 42}
	rows, err := Generate(context.Background(), model, rep, newGraph, []int{pieceStartID}, opt, nil)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for _, row := range rows {
		require.Greater(t, len(row), 1)
	}
}

func TestGenerateRespectsCancellation(t *testing.T) {
	rep := buildRep(t)
	newGraph := func() *grammar.RepresentationGraph {
		return grammar.NewRepresentationGraph(rep, grammar.TrackModel, nil)
	}
	pieceStartID, err := rep.Encode(vocab.PieceStart, 0)
	require.NoError(t, err)

	model := modelapi.NewStub(rep.VocabSize())
	opt := Options{BatchSize: 1, MaxSteps: 100, Temperature: 1, SamplingSeed: 1}
	cb := cancelAfter{n: 2}
	rows, err := Generate(context.Background(), model, rep, newGraph, []int{pieceStartID}, opt, &cb)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	// prompt plus one token for each of the two steps before Cancelled
	// returns true.
	require.Len(t, rows[0], 3)
}

type cancelAfter struct {
	NoopCallbacks
	n     int
	calls int
}

func (c *cancelAfter) Cancelled() bool {
	c.calls++
	return c.calls > c.n
}

func TestGenerateMultiAttemptRetriesUntilChanged(t *testing.T) {
	calls := 0
	gen := func(temp float64) ([][]int, error) {
		calls++
		return [][]int{{calls}}, nil
	}
	unchanged := func(rows [][]int) bool { return rows[0][0] < 3 }
	rows, err := GenerateMultiAttempt(5, 1.0, gen, unchanged, nil)
	require.NoError(t, err)
	require.Equal(t, 3, rows[0][0])
}

func TestGenerateMultiAttemptGivesUpAtMax(t *testing.T) {
	gen := func(temp float64) ([][]int, error) { return [][]int{{1}}, nil }
	unchanged := func(rows [][]int) bool { return true }
	rows, err := GenerateMultiAttempt(2, 1.0, gen, unchanged, nil)
	require.NoError(t, err)
	require.Equal(t, [][]int{{1}}, rows)
}

func TestCallbackManagerStopsRaisingAfterFirstDecline(t *testing.T) {
	cm := NewCallbackManager(&declineAfterOne{})
	temp := cm.UpdateTemperature(0, 1.0)
	require.Equal(t, 1.5, temp)
	temp = cm.UpdateTemperature(1, temp)
	require.Equal(t, 1.5, temp) // declined on attempt 1, never asked again
}

type declineAfterOne struct {
	NoopCallbacks
	asked int
}

func (d *declineAfterOne) UpdateTemperature(attempt int, current float64) (float64, bool) {
	d.asked++
	if d.asked == 1 {
		return current + 0.5, true
	}
	return current, false
}
