package main

import (
	"context"
	"os"

	"github.com/desertthunder/texttube/internal/shared"
)

// Version is reported by --version.
const Version = "0.1.0"

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	if err := runner.app().Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
