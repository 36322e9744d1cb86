package main

import (
	"os"

	"github.com/atlanticproxy/atlantic/cmd/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
