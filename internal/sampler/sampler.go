// Package sampler drives a Model one token at a time across a batch of
// rows, ported from inference/sampling/multi_step_sample.h's generate
// loop.
package sampler

import (
	"context"
	"math"
	"math/rand"

	"github.com/schollz/miditok/internal/grammar"
	"github.com/schollz/miditok/internal/midierr"
	"github.com/schollz/miditok/internal/modelapi"
	"github.com/schollz/miditok/internal/sample"
	"github.com/schollz/miditok/internal/vocab"
)

// Options configures one Generate call, mirroring the HyperParam
// fields that matter to the token-by-token loop (model_dim and the
// step-windowing fields belong to internal/planner instead).
type Options struct {
	BatchSize          int
	MaxSteps           int
	Temperature        float64
	PolyphonyHardLimit int
	NumDeltaTokens     int
	MaskTopK           bool
	MaskTopKProbability float64
	SamplingSeed       int64

	// Mode, Resolution and the Num* fields feed sample.Config directly;
	// zero Num* values leave the corresponding control.go gating rule
	// disabled, matching a caller with no Status to derive them from.
	Mode               grammar.ModelType
	Resolution         int
	NumTracks          int
	NumBars            int
	NumInfillBars      int
	MicrotimingEnabled bool
}

func (o Options) normalized() Options {
	if o.BatchSize <= 0 {
		o.BatchSize = 1
	}
	if o.MaxSteps <= 0 {
		o.MaxSteps = 4096
	}
	if o.Temperature < 1e-6 {
		o.Temperature = 1
	}
	if o.NumDeltaTokens <= 0 {
		o.NumDeltaTokens = 96
	}
	return o
}

// topKCandidates is the set of token types that gates mask_top_k: the
// knob fires only when at least one of these types has a legal id, and
// then zeroes the single highest-scoring legal id of any type. Ported
// from multi_step_sample.h's note-emission guard.
var topKCandidates = []vocab.TokenType{vocab.NoteOnset, vocab.TimeAbsolutePos, vocab.NoteDuration}

// Generate runs the sampler loop for one step's prompt, returning one
// token sequence per batch row (each including the prompt prefix).
// newGraph must return a fresh grammar.RepresentationGraph usable by
// exactly one row — grammar traversal is stateful, so rows cannot
// share a graph instance.
func Generate(ctx context.Context, model modelapi.Model, rep *vocab.Representation, newGraph func() *grammar.RepresentationGraph, prompt []int, opt Options, cb Callbacks) ([][]int, error) {
	opt = opt.normalized()
	if cb == nil {
		cb = NoopCallbacks{}
	}
	rng := rand.New(rand.NewSource(opt.SamplingSeed))

	controls := make([]*sample.Control, opt.BatchSize)
	tokens := make([][]int, opt.BatchSize)
	for row := range controls {
		controls[row] = sample.New(rep, newGraph(), sample.Config{
			Mode:               opt.Mode,
			Resolution:         opt.Resolution,
			PolyphonyHardLimit: opt.PolyphonyHardLimit,
			NumDeltaTokens:     opt.NumDeltaTokens,
			NumTracks:          opt.NumTracks,
			NumBars:            opt.NumBars,
			NumInfillBars:      opt.NumInfillBars,
			MicrotimingEnabled: opt.MicrotimingEnabled,
		})
		tokens[row] = append([]int(nil), prompt...)
		for _, id := range prompt {
			if err := controls[row].Update(id); err != nil {
				return nil, err
			}
		}
	}

	cb.OnStart(opt.MaxSteps)
	for step := 0; step < opt.MaxSteps; step++ {
		if cb.Cancelled() {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		batch := make([][]int, opt.BatchSize)
		for row := range batch {
			batch[row] = tokens[row]
		}
		logits, _, err := model.Forward(ctx, batch, nil)
		if err != nil {
			return nil, err
		}

		allFinished := true
		for row, ctrl := range controls {
			if ctrl.Finished() {
				continue
			}
			allFinished = false

			mask, err := ctrl.GetMask()
			if err != nil {
				return nil, midierr.Wrap(midierr.ErrNoLegalToken, "step %d row %d: %v", step, row, err)
			}

			scored := applyMask(logits[row], mask)
			if opt.MaskTopK && legalTopKType(rep, mask) && rng.Float64() < opt.MaskTopKProbability {
				zeroTopLogit(scored)
			}

			tokenID := sampleMultinomial(scored, opt.Temperature, rng)
			if err := ctrl.Update(tokenID); err != nil {
				return nil, err
			}
			tokens[row] = append(tokens[row], tokenID)
			cb.OnPrediction(step, row, tokenID)

			if dec, err := rep.Decode(tokenID); err == nil && dec.Type == vocab.BarEnd {
				cb.OnBarEnd(step, row)
			}
		}
		if allFinished {
			break
		}
	}
	return tokens, nil
}

// applyMask returns a copy of logits with every masked-out index set
// to -Inf so it can never be sampled.
func applyMask(logits []float32, mask []int) []float64 {
	out := make([]float64, len(logits))
	for i, v := range logits {
		if mask[i] == 0 {
			out[i] = math.Inf(-1)
		} else {
			out[i] = float64(v)
		}
	}
	return out
}

// legalTopKType reports whether any of the mask-top-k candidate token
// types still has a legal id under mask, per multi_step_sample.h's
// guard that only applies the knob when note emission is in play.
func legalTopKType(rep *vocab.Representation, mask []int) bool {
	for _, tt := range topKCandidates {
		size, err := rep.GetDomainSize(tt)
		if err != nil {
			continue
		}
		for v := 0; v < size; v++ {
			id, err := rep.Encode(tt, v)
			if err == nil && mask[id] == 1 {
				return true
			}
		}
	}
	return false
}

// zeroTopLogit sets the single highest-scoring entry of scored to
// -Inf in place.
func zeroTopLogit(scored []float64) {
	best := -1
	for i, v := range scored {
		if !math.IsInf(v, -1) && (best == -1 || v > scored[best]) {
			best = i
		}
	}
	if best >= 0 {
		scored[best] = math.Inf(-1)
	}
}

// sampleMultinomial applies temperature and softmax to scored, then
// draws one index from the resulting distribution.
func sampleMultinomial(scored []float64, temperature float64, rng *rand.Rand) int {
	maxV := math.Inf(-1)
	for _, v := range scored {
		if v > maxV {
			maxV = v
		}
	}
	weights := make([]float64, len(scored))
	var total float64
	for i, v := range scored {
		if math.IsInf(v, -1) {
			continue
		}
		w := math.Exp((v - maxV) / temperature)
		weights[i] = w
		total += w
	}
	if total == 0 {
		return 0
	}
	r := rng.Float64() * total
	var cum float64
	for i, w := range weights {
		cum += w
		if r <= cum {
			return i
		}
	}
	return len(weights) - 1
}
