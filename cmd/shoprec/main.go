package main

import (
	"os"

	"github.com/rushteam/shoprec/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
