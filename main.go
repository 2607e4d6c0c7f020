package main

import (
	"os"

	"github.com/robertadelima/data-visualization-gas-prices/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
