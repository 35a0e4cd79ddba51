package modelapi

import "context"

// Stub is a Model that assigns uniform logits to every token id below
// VocabSize. It exists so the sampler loop, CLI, and tests can run
// end to end without a real trained model on hand — the grammar mask
// in internal/grammar does the actual work of keeping output legal.
type Stub struct {
	meta Metadata
}

// NewStub builds a Stub reporting vocabSize tokens.
func NewStub(vocabSize int) *Stub {
	return &Stub{meta: Metadata{Name: "stub", VocabSize: vocabSize, ModelDim: 4, NumHeads: 1, NumLayers: 1, NumHidden: 1}}
}

func (s *Stub) Metadata() Metadata { return s.meta }

func (s *Stub) Forward(ctx context.Context, batchTokens [][]int, state []State) ([][]float32, []State, error) {
	logits := make([][]float32, len(batchTokens))
	for i := range logits {
		row := make([]float32, s.meta.VocabSize)
		logits[i] = row
	}
	return logits, state, nil
}
