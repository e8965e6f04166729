package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/palgen/palgen/internal/colour"
)

func newThemeCmd() *cobra.Command {
	var (
		histFile   string
		colourFile string
		mixAmount  float64
		preview    bool
	)
	format := newChoiceFlag("json", "json", "txt")

	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Refine a histogram into a 12-slot named theme",
		Long: `Refine an extracted colour histogram into a complete named theme.

Each of the twelve theme slots (black, red, green, yellow, blue, magenta,
cyan, white, brightblack, orange, violet, teal) is assigned the histogram
colour that best balances prominence in the image against closeness to the
slot's canonical hue, while keeping slot colours perceptually distinct from
each other. Slots the image cannot fill fall back to canonical colours, so
the theme is always complete.

Examples:
  # Refine the default histogram into colors.json
  palgen theme

  # Pull every slot a quarter of the way toward its canonical colour
  palgen theme --mix 0.25

  # Show the theme in the terminal
  palgen theme --preview`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("hist-file") {
				histFile = cfg.Extract.HistFile
			}
			if !cmd.Flags().Changed("colour-file") {
				colourFile = cfg.Theme.ColourFile
			}
			if !cmd.Flags().Changed("mix") {
				mixAmount = cfg.Theme.Mix
			}
			return runTheme(cmd, histFile, colourFile, mixAmount, format.value, preview)
		},
	}

	cmd.Flags().StringVar(&histFile, "hist-file", "color_hist.txt", "histogram input file")
	cmd.Flags().StringVar(&colourFile, "colour-file", "colors.json", "theme output file")
	cmd.Flags().Float64VarP(&mixAmount, "mix", "p", 0.25,
		"proportion of canonical colour mixed into each slot (0-1)")
	cmd.Flags().Var(format, "format", "theme output format (json, txt)")
	cmd.Flags().BoolVar(&preview, "preview", false, "show the theme in the terminal")

	return cmd
}

func runTheme(cmd *cobra.Command, histFile, colourFile string, mixAmount float64, format string, preview bool) error {
	logger := newLogger(cmd)

	if mixAmount < 0 || mixAmount > 1 {
		return fmt.Errorf("mix must be between 0 and 1, got %v", mixAmount)
	}

	in, err := os.Open(histFile) // #nosec G304 - User-specified histogram path
	if err != nil {
		return fmt.Errorf("failed to open histogram file: %w", err)
	}
	defer in.Close()

	hist, err := colour.ReadHistogram(in)
	if err != nil {
		return fmt.Errorf("failed to read histogram %s: %w", histFile, err)
	}
	logger.Debug("histogram read", "path", histFile, "colours", len(hist))

	opts := colour.DefaultAssignerOptions()
	opts.Mix = mixAmount
	theme, err := colour.Refine(hist, opts)
	if err != nil {
		return fmt.Errorf("failed to refine theme: %w", err)
	}
	logger.Info("theme refined", "slots", colour.NumSlots, "mix", mixAmount)

	out, err := os.Create(colourFile)
	if err != nil {
		return fmt.Errorf("failed to create theme file: %w", err)
	}
	defer out.Close()
	if err := writeTheme(out, theme, format); err != nil {
		return fmt.Errorf("failed to write theme: %w", err)
	}
	logger.Debug("theme written", "path", colourFile, "format", format)

	if preview {
		printTheme(cmd, theme)
	}
	return nil
}

// writeTheme serialises the theme as JSON keyed by slot name, or as plain
// "name hex" lines for txt.
func writeTheme(w io.Writer, theme colour.Theme, format string) error {
	if format == "json" {
		return theme.WriteTo(w)
	}
	for _, slot := range colour.Slots() {
		if _, err := fmt.Fprintf(w, "%s %s\n", slot, theme.Colour(slot).RGB().Hex()); err != nil {
			return err
		}
	}
	return nil
}

// printTheme lists every slot, with ANSI colour blocks when stdout is a
// terminal.
func printTheme(cmd *cobra.Command, theme colour.Theme) {
	tty := term.IsTerminal(int(os.Stdout.Fd()))
	for _, slot := range colour.Slots() {
		rgb := theme.Colour(slot).RGB()
		if tty {
			cmd.Println(colour.FormatColourWithLabel(rgb, slot.String(), 8))
		} else {
			cmd.Printf("%-12s %s\n", slot, rgb.Hex())
		}
	}
}
