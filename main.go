package main

import (
	"os"

	"github.com/tanakrit-w/giftwise/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
