package main

import (
	"os"

	"github.com/captionflow/captionflow/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
