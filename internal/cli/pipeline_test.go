// Package cli_test provides tests for the CLI package.
package cli_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/palgen/palgen/internal/cli"
	"github.com/palgen/palgen/internal/colour"
)

// writeSolidPNG creates a single-colour PNG in dir and returns its path.
func writeSolidPNG(t *testing.T, dir string, c color.RGBA) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(dir, "input.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return path
}

// run executes the command tree with args, capturing output.
func run(t *testing.T, args ...string) error {
	t.Helper()

	var outBuf, errBuf bytes.Buffer
	rootCmd := cli.NewRootCmd()
	rootCmd.SetOut(&outBuf)
	rootCmd.SetErr(&errBuf)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestPipeline(t *testing.T) {
	tempDir := t.TempDir()
	// Keep config lookup away from any real user config.
	t.Setenv("XDG_CONFIG_HOME", tempDir)

	imagePath := writeSolidPNG(t, tempDir, color.RGBA{R: 229, A: 255})
	histFile := filepath.Join(tempDir, "hist.txt")
	colourFile := filepath.Join(tempDir, "colors.json")
	paletteFile := filepath.Join(tempDir, "palette.png")

	t.Run("Extract", func(t *testing.T) {
		if err := run(t, "extract", "-c", "8", "--hist-file", histFile, imagePath); err != nil {
			t.Fatalf("extract failed: %v", err)
		}

		f, err := os.Open(histFile)
		if err != nil {
			t.Fatalf("Histogram file was not written: %v", err)
		}
		defer f.Close()
		hist, err := colour.ReadHistogram(f)
		if err != nil {
			t.Fatalf("Failed to read histogram back: %v", err)
		}
		if len(hist) != 1 {
			t.Fatalf("Expected 1 colour for a solid image, got %d", len(hist))
		}
		if got := hist[0].Colour.RGB(); got != (colour.RGB{R: 229}) {
			t.Errorf("Extracted colour = %v, want {229 0 0}", got)
		}
		if hist[0].Weight != 32*32 {
			t.Errorf("Extracted weight = %v, want %d", hist[0].Weight, 32*32)
		}
	})

	t.Run("Theme", func(t *testing.T) {
		err := run(t, "theme", "--hist-file", histFile, "--colour-file", colourFile, "--mix", "0")
		if err != nil {
			t.Fatalf("theme failed: %v", err)
		}

		f, err := os.Open(colourFile)
		if err != nil {
			t.Fatalf("Theme file was not written: %v", err)
		}
		defer f.Close()
		theme, err := colour.ReadTheme(f)
		if err != nil {
			t.Fatalf("Failed to read theme back: %v", err)
		}
		if got := theme.Colour(colour.SlotRed).RGB(); got != (colour.RGB{R: 229}) {
			t.Errorf("Red slot = %v, want the extracted red untouched", got)
		}
	})

	t.Run("Render", func(t *testing.T) {
		err := run(t, "render", "--colour-file", colourFile, "--out", paletteFile, imagePath)
		if err != nil {
			t.Fatalf("render failed: %v", err)
		}

		f, err := os.Open(paletteFile)
		if err != nil {
			t.Fatalf("Palette file was not written: %v", err)
		}
		defer f.Close()
		cfg, err := png.DecodeConfig(f)
		if err != nil {
			t.Fatalf("Palette file is not a valid PNG: %v", err)
		}
		// 12 swatches in two columns of 6 at default geometry.
		wantH := 6*(90+10) + 10
		if cfg.Height != wantH {
			t.Errorf("Palette height = %d, want %d", cfg.Height, wantH)
		}
	})
}

func TestAllCommand(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tempDir)

	imagePath := writeSolidPNG(t, tempDir, color.RGBA{R: 3, G: 67, B: 223, A: 255})
	histFile := filepath.Join(tempDir, "hist.txt")
	colourFile := filepath.Join(tempDir, "colors.json")
	paletteFile := filepath.Join(tempDir, "palette.png")

	err := run(t, "all", "-c", "16",
		"--hist-file", histFile, "--colour-file", colourFile, "--out", paletteFile, imagePath)
	if err != nil {
		t.Fatalf("all failed: %v", err)
	}

	for _, path := range []string{histFile, colourFile, paletteFile} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("Pipeline output %s was not written: %v", filepath.Base(path), err)
		}
	}
}

func TestCommandErrors(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tempDir)

	imagePath := writeSolidPNG(t, tempDir, color.RGBA{R: 128, A: 255})
	histFile := filepath.Join(tempDir, "hist.txt")
	if err := run(t, "extract", "--hist-file", histFile, imagePath); err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	tests := []struct {
		name string
		args []string
	}{
		{name: "extract missing image", args: []string{"extract", filepath.Join(tempDir, "missing.png")}},
		{name: "extract invalid count", args: []string{"extract", "-c", "0", imagePath}},
		{name: "theme missing histogram", args: []string{"theme", "--hist-file", filepath.Join(tempDir, "missing.txt")}},
		{name: "theme invalid mix", args: []string{"theme", "--hist-file", histFile, "--mix", "1.5"}},
		{name: "theme invalid format", args: []string{"theme", "--hist-file", histFile, "--format", "xml"}},
		{name: "render missing theme", args: []string{"render", "--colour-file", filepath.Join(tempDir, "missing.json"), imagePath}},
		{name: "explicit missing config", args: []string{"extract", "--config", filepath.Join(tempDir, "missing.yaml"), imagePath}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(t, tt.args...); err == nil {
				t.Fatal("Expected an error, but got none")
			}
		})
	}
}
