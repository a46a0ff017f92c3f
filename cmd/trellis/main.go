package main

import (
	"os"

	"github.com/t-hobson/trellis/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
