package cli

import (
	"github.com/spf13/cobra"

	"github.com/palgen/palgen/internal/colour"
	"github.com/palgen/palgen/internal/render"
)

func newAllCmd() *cobra.Command {
	var (
		colours    int
		mixAmount  float64
		histFile   string
		colourFile string
		outFile    string
		fontPath   string
		preview    bool
	)

	cmd := &cobra.Command{
		Use:   "all <image>",
		Short: "Run extract, theme and render as one pipeline",
		Long: `Run the full pipeline on an image: extract a colour histogram, refine it
into a named theme, and render the theme as swatches over the image. The
intermediate histogram and theme files are written alongside the palette
image so they can be reused or inspected.

Examples:
  palgen all wallpaper.jpg
  palgen all -c 256 --mix 0.25 -o wallpaper-palette.png wallpaper.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("colours") {
				colours = cfg.Extract.Colours
			}
			if !cmd.Flags().Changed("mix") {
				mixAmount = cfg.Theme.Mix
			}
			if !cmd.Flags().Changed("hist-file") {
				histFile = cfg.Extract.HistFile
			}
			if !cmd.Flags().Changed("colour-file") {
				colourFile = cfg.Theme.ColourFile
			}
			if !cmd.Flags().Changed("out") {
				outFile = cfg.Render.PaletteFile
			}

			opts := render.Options{
				SwatchWidth:  cfg.Render.SwatchWidth,
				SwatchHeight: cfg.Render.SwatchHeight,
				Margin:       cfg.Render.Margin,
				FontPath:     cfg.Render.Font,
				FontSize:     render.DefaultOptions().FontSize,
			}
			if cmd.Flags().Changed("font") {
				opts.FontPath = fontPath
			}

			if err := runExtract(cmd, args[0], colours, histFile, "csv", false); err != nil {
				return err
			}
			if err := runTheme(cmd, histFile, colourFile, mixAmount, "json", preview); err != nil {
				return err
			}
			return runRender(cmd, args[0], outFile, opts, themeSwatches(colourFile))
		},
	}

	cmd.Flags().IntVarP(&colours, "colours", "c", colour.DefaultColourCount, "number of colours to extract")
	cmd.Flags().Float64VarP(&mixAmount, "mix", "p", 0.25,
		"proportion of canonical colour mixed into each slot (0-1)")
	cmd.Flags().StringVar(&histFile, "hist-file", "color_hist.txt", "histogram output file")
	cmd.Flags().StringVar(&colourFile, "colour-file", "colors.json", "theme output file")
	cmd.Flags().StringVarP(&outFile, "out", "o", "palette.png", "palette image output file")
	cmd.Flags().StringVar(&fontPath, "font", "", "TTF font for swatch labels")
	cmd.Flags().BoolVar(&preview, "preview", false, "show the refined theme in the terminal")

	return cmd
}
