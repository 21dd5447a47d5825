package main

import (
	"fmt"
	"os"

	"briefly-backend/cmd/briefly/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
