package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/schollz/miditok/internal/grammar"
	"github.com/schollz/miditok/internal/modelapi"
	"github.com/schollz/miditok/internal/sampler"
)

func newSampleCmd() *cobra.Command {
	var temperature float64
	var maxSteps int
	var batchSize int
	var polyphonyLimit int
	var seed int64
	var resolution int
	var numTracks int
	var numBars int
	var microtiming bool

	cmd := &cobra.Command{
		Use:   "sample <prompt.tokens.json> <out.tokens.json>",
		Short: "Continue a prompt token stream with the stub model under grammar constraints",
		Long: "Runs the constrained sampling loop against internal/modelapi's uniform-logit " +
			"Stub, since the real neural network is out of scope for this tool. Useful for " +
			"exercising the grammar/mask/sampling plumbing end to end without a trained model.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var prompt []int
			if err := json.Unmarshal(raw, &prompt); err != nil {
				return err
			}

			rep, _, _ := buildEncoder()
			model := modelapi.NewStub(rep.VocabSize())

			newGraph := func() *grammar.RepresentationGraph {
				return grammar.NewRepresentationGraph(rep, grammar.TrackModel, nil)
			}

			opt := sampler.Options{
				BatchSize:          batchSize,
				MaxSteps:           maxSteps,
				Temperature:        temperature,
				PolyphonyHardLimit: polyphonyLimit,
				SamplingSeed:       seed,
				Mode:               grammar.TrackModel,
				Resolution:         resolution,
				NumTracks:          numTracks,
				NumBars:            numBars,
				MicrotimingEnabled: microtiming,
			}

			rows, err := sampler.Generate(context.Background(), model, rep, newGraph, prompt, opt, sampler.NoopCallbacks{})
			if err != nil {
				return err
			}

			out, err := json.Marshal(rows)
			if err != nil {
				return err
			}
			return os.WriteFile(args[1], out, 0o644)
		},
	}

	cmd.Flags().Float64Var(&temperature, "temperature", 1.0, "softmax temperature")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 256, "maximum tokens to generate per row")
	cmd.Flags().IntVar(&batchSize, "batch-size", 1, "number of rows to generate in parallel")
	cmd.Flags().IntVar(&polyphonyLimit, "polyphony-limit", 0, "hard polyphony cap, 0 for unlimited")
	cmd.Flags().Int64Var(&seed, "seed", 1, "sampling RNG seed")
	cmd.Flags().IntVar(&resolution, "resolution", 12, "ticks per quarter note, for BAR's default barlength")
	cmd.Flags().IntVar(&numTracks, "num-tracks", 0, "stop TRACK mode generation after this many tracks, 0 for unbounded")
	cmd.Flags().IntVar(&numBars, "num-bars", 0, "bars required per track before TRACK_END is legal, 0 for unbounded")
	cmd.Flags().BoolVar(&microtiming, "microtiming", false, "allow DELTA/DELTA_DIRECTION microtiming tokens")
	return cmd
}
