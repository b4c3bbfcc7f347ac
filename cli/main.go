package main

import (
	"os"

	"github.com/multillm/survey-stack/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
