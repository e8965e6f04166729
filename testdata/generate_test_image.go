// Test image generator for creating sample images for palette extraction
package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
)

func main() {
	// Create a simple test image with distinct colour blocks
	width := 400
	height := 400
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	// Canonical theme hues plus a neutral, so every block maps cleanly
	// onto a theme slot
	colors := []color.RGBA{
		{R: 229, G: 0, B: 0, A: 255},     // red
		{R: 21, G: 176, B: 26, A: 255},   // green
		{R: 3, G: 67, B: 223, A: 255},    // blue
		{R: 255, G: 255, B: 20, A: 255},  // yellow
		{R: 255, G: 2, B: 141, A: 255},   // magenta
		{R: 19, G: 234, B: 201, A: 255},  // cyan
		{R: 102, G: 102, B: 102, A: 255}, // brightblack
		{R: 255, G: 165, B: 0, A: 255},   // orange
	}

	// Fill image with colour blocks (2x4 grid)
	blockWidth := width / 2
	blockHeight := height / 4

	colorIndex := 0
	for row := 0; row < 4; row++ {
		for col := 0; col < 2; col++ {
			c := colors[colorIndex]
			colorIndex++

			for y := row * blockHeight; y < (row+1)*blockHeight; y++ {
				for x := col * blockWidth; x < (col+1)*blockWidth; x++ {
					img.Set(x, y, c)
				}
			}
		}
	}

	out, err := os.Create("testdata/sample_blocks.png")
	if err != nil {
		panic(err)
	}
	defer out.Close()
	if err := png.Encode(out, img); err != nil {
		panic(err)
	}
}
