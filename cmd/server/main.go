package main

import (
	"os"

	"github.com/jengzang/safeguard-backend/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
