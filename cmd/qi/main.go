package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/barysiuk/qi/cmd/qi/cmd"
	"github.com/barysiuk/qi/internal/core"
)

func main() {
	if err := cmd.Execute(); err != nil {
		// A script's own exit code passes through verbatim and silently.
		var exitErr *core.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
