package main

import (
	"os"

	"github.com/emerald-tools/shinyhunt/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
