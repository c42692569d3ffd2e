package main

import (
	"os"

	"github.com/yhinai/clippy/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
