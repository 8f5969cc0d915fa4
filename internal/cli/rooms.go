package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/floorgen/pkg/catalog"
)

// roomsCommand lists the catalog.
func (c *CLI) roomsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "List the room types floorgen understands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := c.newBuilder()
			if err != nil {
				return err
			}
			cat := b.Catalog()
			if asJSON {
				enc := json.NewEncoder(c.out.w)
				enc.SetIndent("", "  ")
				return enc.Encode(cat.Types())
			}
			fmt.Fprintln(c.out.w, roomTable(cat))
			c.out.detail("%d room types, feature dimension %d", cat.Len(), cat.FeatureDim())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the catalog as JSON")
	return cmd
}

// roomTable renders the catalog with a colour swatch per type.
func roomTable(cat *catalog.Catalog) string {
	types := cat.Types()
	rows := make([][]string, 0, len(types))
	for _, rt := range types {
		swatch := lipgloss.NewStyle().Background(lipgloss.Color(rt.Color.Hex())).Render("    ")
		typical := "—"
		if rt.Typical.Set {
			typical = fmt.Sprintf("%d-%d", rt.Typical.Min, rt.Typical.Max)
		}
		aliases := strings.Join(rt.Aliases, ", ")
		if aliases == "" {
			aliases = "—"
		}
		rows = append(rows, []string{fmt.Sprint(rt.ID), rt.Name, swatch + " " + rt.Color.Hex(), typical, aliases})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Room", "Color", "Typical", "Aliases").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorCyan)
			case col == 1:
				return lipgloss.NewStyle().Foreground(colorWhite)
			default:
				return lipgloss.NewStyle().Foreground(colorGray)
			}
		}).
		Render()
}
