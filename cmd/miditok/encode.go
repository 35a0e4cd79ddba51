package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/schollz/miditok/internal/encoder"
	"github.com/schollz/miditok/internal/pieceio"
)

func newEncodeCmd() *cobra.Command {
	var fillTracks []int
	var fillBars []int

	cmd := &cobra.Command{
		Use:   "encode <piece.json> <out.tokens.json>",
		Short: "Encode a Piece JSON file into a flat token id stream",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			piece, err := pieceio.UnmarshalPiece(raw)
			if err != nil {
				return err
			}

			_, _, enc := buildEncoder()
			enc.Preprocess(piece)

			var multiFill []encoder.BarRef
			for i, tr := range fillTracks {
				if i < len(fillBars) {
					multiFill = append(multiFill, encoder.BarRef{Track: tr, Bar: fillBars[i]})
				}
			}

			tokens, err := enc.EncodePiece(piece, multiFill)
			if err != nil {
				return err
			}

			out, err := json.Marshal(tokens)
			if err != nil {
				return err
			}
			return os.WriteFile(args[1], out, 0o644)
		},
	}

	cmd.Flags().IntSliceVar(&fillTracks, "fill-track", nil, "track index of a trailing multi-fill block (paired with --fill-bar)")
	cmd.Flags().IntSliceVar(&fillBars, "fill-bar", nil, "bar index of a trailing multi-fill block (paired with --fill-track)")
	return cmd
}
