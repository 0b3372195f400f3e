package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/jiyaaat/Doctor-listings/api"
	"github.com/jiyaaat/Doctor-listings/config"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real environment variables take precedence.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to read .env: %s\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load doctor listings config: %s\n", err)
		os.Exit(1)
	}

	if err := api.Run(context.Background(), cfg); err != nil {
		fmt.Fprintf(os.Stderr, "doctor listings server stopped: %s\n", err)
		os.Exit(1)
	}
}
