// Command miditok is the CLI front end for the tokenization and
// constrained-sampling pipeline: encode/decode a Piece, plan a
// multi-step generation batch, run the stub sampler over it, and
// inspect a token stream interactively.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "miditok",
		Short:         "Tokenize, plan and sample symbolic music pieces",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newEncodeCmd())
	root.AddCommand(newDecodeCmd())
	root.AddCommand(newPlanCmd())
	root.AddCommand(newSampleCmd())
	root.AddCommand(newInspectCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "miditok:", err)
		os.Exit(1)
	}
}
