package main

import (
	"os"

	"github.com/otog-org/otog-server/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
