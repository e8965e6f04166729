package colour

import (
	"fmt"
	"strings"
)

// ANSI escape codes for terminal colour previews.
const (
	ansiReset    = "\033[0m"
	ansiFgPrefix = "\033[38;2;"
	ansiBgPrefix = "\033[48;2;"
	ansiSuffix   = "m"
	defaultWidth = 8
)

// ColourPreview returns a solid ANSI-coloured block for a colour.
// Width is the block width in characters.
func ColourPreview(c RGB, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	bg := fmt.Sprintf("%s%d;%d;%d%s", ansiBgPrefix, c.R, c.G, c.B, ansiSuffix)
	return bg + strings.Repeat(" ", width) + ansiReset
}

// FormatColourWithPreview formats a colour as a preview block followed by its
// hex code.
func FormatColourWithPreview(c RGB, width int) string {
	return fmt.Sprintf("%s %s", ColourPreview(c, width), c.Hex())
}

// FormatColourWithLabel formats a colour as a preview block, a label and the
// hex code. Used for named theme slots.
func FormatColourWithLabel(c RGB, label string, width int) string {
	return fmt.Sprintf("%s  %-12s %s", ColourPreview(c, width), label, c.Hex())
}
