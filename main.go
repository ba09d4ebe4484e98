package main

import (
	"os"

	"github.com/abhisek/fido/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
