package main

import (
	"os"

	"github.com/sarth-shah20/todo/cmd"
)

func main() {
	// All logic lives in the cmd package so commands can be tested directly.
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
