// Package main is the entry point for the pricewebapp CLI.
package main

import (
	"os"

	"github.com/Verman94/PriceWebApp/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
