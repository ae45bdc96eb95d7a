// Folio builds a static portfolio site from a tree of source material.
//
// It extracts a colour theme from the site logo, converts photographs,
// renders icons and generates the gallery, dream journal, music and
// publications pages.
package main

import (
	"os"

	"github.com/pdime/folio/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
