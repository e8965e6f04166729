package cli

import (
	"fmt"
	"image/png"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/palgen/palgen/internal/colour"
	img "github.com/palgen/palgen/internal/image"
	"github.com/palgen/palgen/internal/render"
)

func newRenderCmd() *cobra.Command {
	var (
		colourFile string
		histFile   string
		outFile    string
		swatches   int
		opts       render.Options
	)

	cmd := &cobra.Command{
		Use:   "render <image>",
		Short: "Render colour swatches over an image",
		Long: `Render labelled colour swatches over a background image.

By default the swatches come from a refined theme file, one cell per named
slot. With --hist-file the most prominent histogram colours are rendered
instead.

Examples:
  # Render the theme in colors.json over the source image
  palgen render wallpaper.jpg

  # Render the top 24 histogram colours with a TrueType label font
  palgen render --hist-file color_hist.txt --swatches 24 --font DejaVuSans.ttf wallpaper.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("colour-file") {
				colourFile = cfg.Theme.ColourFile
			}
			if !cmd.Flags().Changed("out") {
				outFile = cfg.Render.PaletteFile
			}
			if !cmd.Flags().Changed("swatch-width") {
				opts.SwatchWidth = cfg.Render.SwatchWidth
			}
			if !cmd.Flags().Changed("swatch-height") {
				opts.SwatchHeight = cfg.Render.SwatchHeight
			}
			if !cmd.Flags().Changed("margin") {
				opts.Margin = cfg.Render.Margin
			}
			if !cmd.Flags().Changed("font") {
				opts.FontPath = cfg.Render.Font
			}
			if cmd.Flags().Changed("hist-file") {
				return runRender(cmd, args[0], outFile, opts, histSwatches(histFile, swatches))
			}
			return runRender(cmd, args[0], outFile, opts, themeSwatches(colourFile))
		},
	}

	defaults := render.DefaultOptions()
	cmd.Flags().StringVar(&colourFile, "colour-file", "colors.json", "theme file to render")
	cmd.Flags().StringVar(&histFile, "hist-file", "", "render histogram colours instead of a theme")
	cmd.Flags().StringVarP(&outFile, "out", "o", "palette.png", "output image file")
	cmd.Flags().IntVar(&swatches, "swatches", 16, "histogram colours to render with --hist-file")
	cmd.Flags().IntVar(&opts.SwatchWidth, "swatch-width", defaults.SwatchWidth, "swatch cell width in pixels")
	cmd.Flags().IntVar(&opts.SwatchHeight, "swatch-height", defaults.SwatchHeight, "swatch cell height in pixels")
	cmd.Flags().IntVar(&opts.Margin, "margin", defaults.Margin, "spacing between swatches in pixels")
	cmd.Flags().StringVar(&opts.FontPath, "font", "", "TTF font for swatch labels")
	cmd.Flags().Float64Var(&opts.FontSize, "font-size", defaults.FontSize, "label point size for TTF fonts")

	return cmd
}

// swatchSource defers reading the colour input until the background image has
// been validated.
type swatchSource func() ([]render.Swatch, error)

// themeSwatches builds one labelled swatch per theme slot.
func themeSwatches(colourFile string) swatchSource {
	return func() ([]render.Swatch, error) {
		in, err := os.Open(colourFile) // #nosec G304 - User-specified theme path
		if err != nil {
			return nil, fmt.Errorf("failed to open theme file: %w", err)
		}
		defer in.Close()

		theme, err := colour.ReadTheme(in)
		if err != nil {
			return nil, fmt.Errorf("failed to read theme %s: %w", colourFile, err)
		}

		swatches := make([]render.Swatch, 0, colour.NumSlots)
		for _, slot := range colour.Slots() {
			swatches = append(swatches, render.Swatch{
				Label:  slot.String(),
				Colour: theme.Colour(slot).RGB(),
			})
		}
		return swatches, nil
	}
}

// histSwatches builds rank-labelled swatches for the heaviest histogram
// entries.
func histSwatches(histFile string, limit int) swatchSource {
	return func() ([]render.Swatch, error) {
		if limit < 1 {
			return nil, fmt.Errorf("swatch count must be positive, got %d", limit)
		}
		in, err := os.Open(histFile) // #nosec G304 - User-specified histogram path
		if err != nil {
			return nil, fmt.Errorf("failed to open histogram file: %w", err)
		}
		defer in.Close()

		hist, err := colour.ReadHistogram(in)
		if err != nil {
			return nil, fmt.Errorf("failed to read histogram %s: %w", histFile, err)
		}
		if len(hist) > limit {
			hist = hist[:limit]
		}

		swatches := make([]render.Swatch, 0, len(hist))
		for i, wc := range hist {
			swatches = append(swatches, render.Swatch{
				Label:  strconv.Itoa(i + 1),
				Colour: wc.Colour.RGB(),
			})
		}
		return swatches, nil
	}
}

func runRender(cmd *cobra.Command, imagePath, outFile string, opts render.Options, source swatchSource) error {
	logger := newLogger(cmd)

	if err := img.ValidateImagePath(imagePath); err != nil {
		return fmt.Errorf("invalid image path: %w", err)
	}
	bg, err := img.NewFileLoader().Load(imagePath)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	swatches, err := source()
	if err != nil {
		return err
	}
	logger.Debug("rendering palette", "swatches", len(swatches),
		"cell", fmt.Sprintf("%dx%d", opts.SwatchWidth, opts.SwatchHeight))

	sheet, err := render.Palette(bg, swatches, opts)
	if err != nil {
		return fmt.Errorf("failed to render palette: %w", err)
	}

	out, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()
	if err := png.Encode(out, sheet); err != nil {
		return fmt.Errorf("failed to encode palette image: %w", err)
	}
	logger.Info("palette rendered", "path", outFile,
		"size", fmt.Sprintf("%dx%d", sheet.Bounds().Dx(), sheet.Bounds().Dy()))
	return nil
}
