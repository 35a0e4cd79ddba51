package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/schollz/miditok/internal/planner"
	"github.com/schollz/miditok/internal/score"
)

// planRequest is the on-disk shape a "plan" invocation consumes: a
// Status describing what's fixed/resampled/infilled, the piece's bar
// count, and the hyper-parameters windowing the batch.
type planRequest struct {
	Status     score.Status     `json:"status"`
	NumBars    int              `json:"num_bars"`
	HyperParam score.HyperParam `json:"hyper_param"`
}

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan <request.json>",
		Short: "Window a Status into the ordered list of generation steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var req planRequest
			if err := json.Unmarshal(raw, &req); err != nil {
				return err
			}
			if req.HyperParam == (score.HyperParam{}) {
				req.HyperParam = score.DefaultHyperParam()
			}

			steps, err := planner.FindSteps(req.Status, req.NumBars, req.HyperParam)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(steps, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	return cmd
}
