package main

import (
	"os"

	"github.com/Dicklesworthstone/wtm/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
