// Package main provides the imageops CLI: resize and crop-and-resize of
// image files and SafeTensors image batches.
package main

import (
	"os"
)

const version = "v0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
