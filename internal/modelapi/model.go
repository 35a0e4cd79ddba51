// Package modelapi defines the boundary between the sampler loop and
// whatever autoregressive model actually produces next-token logits.
// collidertracker talks to SuperCollider over OSC for sound; this
// module's external synthesis engine is a model server, so Model plays
// the role internal/supercollider's client played there: a narrow
// interface the rest of the package never needs to know the
// implementation of.
package modelapi

import "context"

// State is opaque per-sequence model state (e.g. a transformer KV
// cache) threaded through successive Forward calls so a model doesn't
// have to recompute attention over tokens it has already seen.
type State any

// Model produces next-token logits for a batch of in-progress
// sequences. Implementations may be a local weights file, a remote
// inference server, or — for tests and dry runs — Stub.
type Model interface {
	// Forward scores one next token per row of batchTokens (each row
	// is that sequence's token history so far, or just the newest
	// token if state is non-nil and already reflects the rest).
	// It returns one logit vector per row, sized Metadata().VocabSize.
	Forward(ctx context.Context, batchTokens [][]int, state []State) (logits [][]float32, newState []State, err error)

	Metadata() Metadata
}

// Metadata describes a model's shape, mirroring the header fields
// collidertracker's storage.go reads off a project file before
// trusting its body.
type Metadata struct {
	Name        string
	VocabSize   int
	ModelDim    int
	NumHeads    int
	NumLayers   int
	NumHidden   int
	Description string
}
