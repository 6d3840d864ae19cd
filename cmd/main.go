package main

import (
	"context"
	"os"

	"github.com/desertthunder/moviweb/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	if err := shared.LoadDotEnv(".env"); err != nil {
		logger.Warn("ignoring .env", "error", err)
	}

	runner := NewRunner(RunnerOpts{Logger: logger})
	app := runner.app()

	err := app.Run(context.Background(), os.Args)
	if cerr := runner.Close(); cerr != nil {
		logger.Error("cleanup failed", "error", cerr)
	}

	if err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
