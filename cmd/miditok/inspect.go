package main

import (
	"encoding/json"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/schollz/miditok/internal/tui"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <tokens.json>",
		Short: "Open an interactive table of a decoded token stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var tokens []int
			if err := json.Unmarshal(raw, &tokens); err != nil {
				return err
			}

			rep, _, _ := buildEncoder()
			rows := make([]tui.Row, 0, len(tokens))
			for i, id := range tokens {
				dec, err := rep.Decode(id)
				value := dec.String()
				if err != nil {
					value = fmt.Sprintf("<invalid token %d>", id)
				}
				rows = append(rows, tui.Row{Index: i, Type: dec.Type.String(), Value: value})
			}

			p := tea.NewProgram(tui.NewInspector(rows, 0), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
	return cmd
}
