// Command seed generates a sample project dataset and writes it to the
// configured CSV file. Existing data at the target path is overwritten.
package main

import (
	"context"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labdesk/labdesk/internal/config"
	"github.com/labdesk/labdesk/internal/core"
	"github.com/labdesk/labdesk/internal/store"
)

func main() {
	if err := godotenv.Overload(); err == nil {
		slog.Info("loaded .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	var (
		n    = flag.Int("n", 50, "number of projects to generate")
		path = flag.String("path", cfg.Data.Path, "output CSV file")
		seed = flag.Int64("seed", time.Now().UnixNano(), "random seed")
	)
	flag.Parse()

	if *n <= 0 {
		slog.Error("project count must be positive", "n", *n)
		os.Exit(1)
	}

	ds := core.Seed(*n, time.Now(), rand.New(rand.NewSource(*seed)))

	st := store.New(*path)
	if err := st.Save(context.Background(), ds); err != nil {
		slog.Error("failed to write dataset", "path", *path, "error", err)
		os.Exit(1)
	}

	slog.Info("dataset generated", "path", *path, "rows", len(ds.Projects))
}
