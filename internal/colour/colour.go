// Package colour implements the palette extraction and theme refinement
// engine: conversion to a perceptual working space, weighted clustering of
// pixel colours, and assignment of representative colours to named theme
// slots.
package colour

import (
	"errors"
	"fmt"
)

// Errors returned by the extraction and refinement operations.
var (
	// ErrEmptyInput is returned when an operation that needs at least one
	// colour is given an empty image or an empty histogram.
	ErrEmptyInput = errors.New("no colours in input")

	// ErrInvalidCount is returned when the requested colour count is out of
	// range for the extractor.
	ErrInvalidCount = errors.New("invalid colour count")
)

// RGB is a colour in the native 8-bit-per-channel representation.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Hex returns the colour as an uppercase hex code (e.g. "#E50000").
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// String returns the colour in "rgb(r, g, b)" form.
func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// ParseHex parses a "#RRGGBB" or "RRGGBB" hex code.
func ParseHex(s string) (RGB, error) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("invalid hex colour %q", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return RGB{}, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	return RGB{R: r, G: g, B: b}, nil
}

// Colour is a point in the working colour space (CIE-LUV). Values are
// immutable once produced; all distance computation happens in this space and
// conversion back to RGB occurs only at the output boundary.
type Colour struct {
	L float64
	U float64
	V float64
}

// WeightedColour pairs a working-space colour with the number of pixels it
// represents. Weights are non-negative; across a histogram they sum to the
// total pixel count of the source image.
type WeightedColour struct {
	Colour Colour
	Weight float64
}

// less orders colours by weight descending, breaking ties by hex code so
// repeated runs produce identical histograms.
func (w WeightedColour) less(other WeightedColour) bool {
	if w.Weight != other.Weight {
		return w.Weight > other.Weight
	}
	return w.Colour.RGB().Hex() < other.Colour.RGB().Hex()
}
