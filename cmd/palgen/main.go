// Palgen - an image palette and theme generator
//
// Palgen extracts representative colours from images, refines them into
// complete named themes and renders palette sheets.
package main

import (
	"os"

	"github.com/palgen/palgen/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
