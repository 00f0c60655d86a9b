package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/quotelab/premia/pkg/cli"
)

var version = "dev"

func main() {
	// Optional .env for local development; a missing file is fine.
	_ = godotenv.Load()

	if err := cli.Run(context.Background(), os.Args, version); err != nil {
		os.Exit(1)
	}
}
