package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// pickCommand composes a request interactively and generates it.
func (c *CLI) pickCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Choose rooms interactively, then generate a floor plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.seedSet = cmd.Flags().Changed("seed")

			b, err := c.newBuilder()
			if err != nil {
				return err
			}
			final, err := tea.NewProgram(NewRoomPickerModel(b.Catalog()), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return fmt.Errorf("room picker: %w", err)
			}
			m, ok := final.(RoomPickerModel)
			if !ok || !m.Confirmed {
				c.out.info("Cancelled")
				return nil
			}

			names := m.Names()
			c.out.info("Request: %s", strings.Join(names, " "))
			return c.runGenerate(cmd.Context(), names, &opts)
		},
	}

	opts.register(cmd)
	return cmd
}
