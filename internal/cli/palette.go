package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackflame/pkg/render/flame/palette"
)

// paletteCommand creates the palette map management command.
func (c *CLI) paletteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "palette",
		Short: "Inspect palettes and palette map files",
	}

	cmd.AddCommand(c.paletteShowCommand())
	cmd.AddCommand(c.paletteClearCommand())
	cmd.AddCommand(c.paletteListCommand())

	return cmd
}

// paletteShowCommand creates the "palette show" subcommand.
func (c *CLI) paletteShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <file>",
		Short: "Print the colors pinned in a palette map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := palette.LoadMapFile(args[0])
			if err != nil {
				return err
			}
			if m.Len() == 0 {
				printInfo("Palette map is empty")
				return nil
			}
			for _, name := range m.Names() {
				col, _ := m.Get(name)
				printSwatch(name, col)
			}
			printDetail("%d names", m.Len())
			return nil
		},
	}
}

// paletteClearCommand creates the "palette clear" subcommand.
func (c *CLI) paletteClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear <file>",
		Short: "Delete a palette map so colors are assigned afresh",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := palette.LoadMapFile(args[0])
			if err != nil {
				return err
			}
			if err := os.Remove(args[0]); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("remove palette map: %w", err)
			}
			printSuccess("Cleared %d pinned colors", m.Len())
			return nil
		},
	}
}

// paletteListCommand creates the "palette list" subcommand.
func (c *CLI) paletteListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available color palettes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range palette.Names() {
				p, _ := palette.Parse(name)
				r := palette.NewResolver(p, palette.WithHash())
				printSwatch(name, r.Color("main"))
			}
			return nil
		},
	}
}

// printSwatch prints a color block followed by the name and color value.
func printSwatch(name string, col palette.Color) {
	swatch := lipgloss.NewStyle().Background(lipgloss.Color(col.Hex())).Render("    ")
	fmt.Println(swatch + " " + StyleValue.Render(name) + " " + StyleDim.Render(col.String()))
}
