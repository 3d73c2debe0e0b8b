package main

import (
	"os"

	"github.com/lumonlabs/refinery/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
