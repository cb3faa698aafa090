package main

import (
	"os"

	"github.com/axonops/cqlspec/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
