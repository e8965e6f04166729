// Package render paints colour swatches over a background image, producing a
// visual palette sheet for a histogram or a refined theme.
package render

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/palgen/palgen/internal/colour"
)

// Swatch is one labelled colour cell on the palette sheet.
type Swatch struct {
	Label  string
	Colour colour.RGB
}

// Options controls swatch geometry and label rendering.
type Options struct {
	// SwatchWidth and SwatchHeight are the cell size in pixels.
	SwatchWidth  int
	SwatchHeight int
	// Margin is the spacing between cells and the image edge.
	Margin int
	// FontPath optionally names a TTF file for labels; the built-in
	// bitmap face is used when empty.
	FontPath string
	// FontSize is the TTF point size. Ignored for the built-in face.
	FontSize float64
}

// DefaultOptions returns the standard palette sheet geometry.
func DefaultOptions() Options {
	return Options{
		SwatchWidth:  180,
		SwatchHeight: 90,
		Margin:       10,
		FontSize:     28,
	}
}

// Palette composes the swatches over bg, scaling the background so the cells
// stack in two columns down the left and right edges.
func Palette(bg image.Image, swatches []Swatch, opts Options) (*image.RGBA, error) {
	if bg == nil {
		return nil, fmt.Errorf("background image cannot be nil")
	}
	if len(swatches) == 0 {
		return nil, fmt.Errorf("no swatches to render")
	}
	if opts.SwatchWidth < 1 || opts.SwatchHeight < 1 || opts.Margin < 0 {
		return nil, fmt.Errorf("invalid swatch geometry %dx%d margin %d",
			opts.SwatchWidth, opts.SwatchHeight, opts.Margin)
	}

	face, err := loadFace(opts)
	if err != nil {
		return nil, err
	}

	perColumn := (len(swatches) + 1) / 2
	height := perColumn*(opts.SwatchHeight+opts.Margin) + opts.Margin

	srcBounds := bg.Bounds()
	if srcBounds.Dx() == 0 || srcBounds.Dy() == 0 {
		return nil, fmt.Errorf("background image is empty")
	}
	width := srcBounds.Dx() * height / srcBounds.Dy()
	if width < 1 {
		width = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), bg, srcBounds, draw.Src, nil)

	for i, sw := range swatches {
		col := i / perColumn
		row := i % perColumn

		left := opts.Margin
		if col == 1 {
			left = width - opts.Margin - opts.SwatchWidth
		}
		top := opts.Margin + row*(opts.SwatchHeight+opts.Margin)

		cell := image.Rect(left, top, left+opts.SwatchWidth, top+opts.SwatchHeight)
		fill := color.RGBA{R: sw.Colour.R, G: sw.Colour.G, B: sw.Colour.B, A: 255}
		draw.Draw(dst, cell, image.NewUniform(fill), image.Point{}, draw.Src)

		drawLabel(dst, cell, sw, face)
	}

	return dst, nil
}

// loadFace returns the label font face: a parsed TTF when configured, the
// built-in bitmap face otherwise.
func loadFace(opts Options) (font.Face, error) {
	if opts.FontPath == "" {
		return basicfont.Face7x13, nil
	}

	data, err := os.ReadFile(opts.FontPath) // #nosec G304 - User-specified font path
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	parsed, err := freetype.ParseFont(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font file %s: %w", opts.FontPath, err)
	}

	size := opts.FontSize
	if size <= 0 {
		size = DefaultOptions().FontSize
	}
	return truetype.NewFace(parsed, &truetype.Options{Size: size}), nil
}

// drawLabel centers the swatch's label and hex code in the cell, in whichever
// of black or white contrasts better with the swatch colour.
func drawLabel(dst *image.RGBA, cell image.Rectangle, sw Swatch, face font.Face) {
	text := sw.Colour.Hex()
	if sw.Label != "" {
		text = sw.Label + ": " + text
	}

	textColour := color.RGBA{A: 255}
	if isDark(sw.Colour) {
		textColour = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}

	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(textColour),
		Face: face,
	}

	width := d.MeasureString(text)
	metrics := face.Metrics()
	centerX := fixed.I(cell.Min.X + cell.Dx()/2)
	centerY := fixed.I(cell.Min.Y + cell.Dy()/2)
	d.Dot = fixed.Point26_6{
		X: centerX - width/2,
		Y: centerY + (metrics.Ascent-metrics.Descent)/2,
	}
	d.DrawString(text)
}

// isDark reports whether the colour needs light label text.
func isDark(c colour.RGB) bool {
	// HSV value threshold on the dominant channel.
	return max(c.R, c.G, c.B) < 128
}
