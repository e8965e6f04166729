package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/palgen/palgen/internal/colour"
	img "github.com/palgen/palgen/internal/image"
)

func newExtractCmd() *cobra.Command {
	var (
		colours  int
		histFile string
		preview  bool
	)
	format := newChoiceFlag("csv", "csv", "json")

	cmd := &cobra.Command{
		Use:   "extract <image>",
		Short: "Extract a colour histogram from an image",
		Long: `Extract a weighted histogram of representative colours from an image.

All pixels are clustered in a perceptual colour space; the result is a list
of (count, colour) pairs ordered by how much of the image each colour
represents, with near-duplicate colours merged.

Examples:
  # Extract the default 512 colours
  palgen extract wallpaper.jpg

  # Extract 64 colours to a custom histogram file
  palgen extract -c 64 --hist-file hist.csv wallpaper.png

  # Show the extracted colours in the terminal
  palgen extract --preview wallpaper.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("colours") {
				colours = cfg.Extract.Colours
			}
			if !cmd.Flags().Changed("hist-file") {
				histFile = cfg.Extract.HistFile
			}
			return runExtract(cmd, args[0], colours, histFile, format.value, preview)
		},
	}

	cmd.Flags().IntVarP(&colours, "colours", "c", colour.DefaultColourCount,
		fmt.Sprintf("number of colours to extract (1-%d)", colour.MaxColourCount))
	cmd.Flags().StringVar(&histFile, "hist-file", "color_hist.txt", "histogram output file")
	cmd.Flags().Var(format, "format", "histogram output format (csv, json)")
	cmd.Flags().BoolVar(&preview, "preview", false, "show extracted colours in the terminal")

	return cmd
}

func runExtract(cmd *cobra.Command, imagePath string, colours int, histFile, format string, preview bool) error {
	logger := newLogger(cmd)

	if err := img.ValidateImagePath(imagePath); err != nil {
		return fmt.Errorf("invalid image path: %w", err)
	}

	logger.Debug("loading image", "path", imagePath)
	source, err := img.NewFileLoader().Load(imagePath)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}
	bounds := source.Bounds()
	logger.Debug("image loaded", "width", bounds.Dx(), "height", bounds.Dy())

	hist, err := colour.NewExtractor().Extract(source, colours)
	if err != nil {
		return fmt.Errorf("failed to extract colours: %w", err)
	}
	logger.Info("extracted colours", "count", len(hist), "pixels", int(hist.TotalWeight()))

	out, err := os.Create(histFile)
	if err != nil {
		return fmt.Errorf("failed to create histogram file: %w", err)
	}
	defer out.Close()
	if format == "json" {
		err = hist.WriteJSON(out)
	} else {
		err = hist.WriteTo(out)
	}
	if err != nil {
		return fmt.Errorf("failed to write histogram: %w", err)
	}
	logger.Debug("histogram written", "path", histFile, "format", format)

	if preview {
		for _, wc := range hist {
			cmd.Println(colour.FormatColourWithPreview(wc.Colour.RGB(), 8))
		}
	}
	return nil
}
