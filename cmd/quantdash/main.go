package main

import (
	"os"

	"github.com/bobmcallan/quantdash/internal/cli"
)

func main() {
	if err := cli.NewRootCmd(nil, os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
