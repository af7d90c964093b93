package main

import (
	"os"

	"github.com/neuroblueprint/shuttle/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
