package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/schollz/miditok/internal/encoder"
	"github.com/schollz/miditok/internal/pieceio"
)

func newDecodeCmd() *cobra.Command {
	var resolveInfill bool

	cmd := &cobra.Command{
		Use:   "decode <tokens.json> <out.piece.json>",
		Short: "Decode a flat token id stream back into a Piece JSON file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var tokens []int
			if err := json.Unmarshal(raw, &tokens); err != nil {
				return err
			}

			if resolveInfill {
				tokens, err = encoder.ResolveBarInfillTokens(tokens)
				if err != nil {
					return err
				}
			}

			piece, err := encoder.DecodeTokens(tokens)
			if err != nil {
				return err
			}

			out, err := pieceio.MarshalPiece(piece)
			if err != nil {
				return err
			}
			return os.WriteFile(args[1], out, 0o644)
		},
	}

	cmd.Flags().BoolVar(&resolveInfill, "resolve-infill", false, "splice trailing FILL_IN blocks into their FILL_IN_PLACEHOLDER positions before decoding")
	return cmd
}
