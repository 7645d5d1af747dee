package main

import (
	"fmt"
	"os"

	"webcompat/internal/errors"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		if wcErr, ok := errors.AsWebCompatError(err); ok {
			fmt.Fprintln(os.Stderr, wcErr.Text())
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
