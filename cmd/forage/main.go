// Copyright 2025 Calyptra
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/calyptra/forage"
	"github.com/calyptra/forage/ingest"
	"github.com/calyptra/forage/rag"
	"github.com/calyptra/forage/server"
)

func main() {
	app := &cli.App{
		Name:  "forage",
		Usage: "Forensic artifact RAG engine",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory",
				Value:   "forage-db",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP interface",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address",
						Value: ":8080",
					},
					&cli.StringFlag{
						Name:  "upload-dir",
						Usage: "Directory for uploaded artifact files",
					},
				},
			},
			{
				Name:      "ingest",
				Usage:     "Ingest artifact files into the corpus",
				ArgsUsage: "FILE...",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent file workers",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Entries embedded per model call",
						Value: 32,
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Run a plain similarity search against the corpus",
				ArgsUsage: "QUERY",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum hits to return",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "multi-hit",
						Usage: "Allow unlimited hits per source artifact",
					},
				},
			},
			{
				Name:   "reset",
				Usage:  "Delete every record and artifact entry",
				Action: resetCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serveCommand(c *cli.Context) error {
	app, err := forage.NewApp(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer app.Close()

	coord, err := app.NewCoordinator()
	if err != nil {
		return fmt.Errorf("failed to create ingestion coordinator: %w", err)
	}
	defer coord.Release()

	orch, err := app.NewOrchestrator()
	if err != nil {
		return fmt.Errorf("failed to create query orchestrator: %w", err)
	}

	opts := []server.ServerOption{server.WithAddr(c.String("addr"))}
	if dir := c.String("upload-dir"); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create upload directory: %w", err)
		}
		opts = append(opts, server.WithUploadDir(dir))
	}
	srv := server.NewServer(coord, orch, app, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one file is required")
	}

	app, err := forage.NewApp(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer app.Close()

	var opts []ingest.Option
	if workers := c.Int("workers"); workers > 0 {
		opts = append(opts, ingest.WithPoolSize(workers))
	}
	opts = append(opts, ingest.WithBatchSize(c.Int("batch-size")))

	coord, err := app.NewCoordinator(opts...)
	if err != nil {
		return fmt.Errorf("failed to create ingestion coordinator: %w", err)
	}
	defer coord.Release()

	if err := coord.Submit(c.Args().Slice()...); err != nil {
		return fmt.Errorf("failed to submit files: %w", err)
	}
	coord.Wait()

	failed := 0
	for path, p := range coord.Progress() {
		if p.Error != "" {
			fmt.Fprintf(os.Stderr, "%s: %s\n", path, p.Error)
			failed++
			continue
		}
		fmt.Printf("%s: %d records\n", path, p.ItemCount)
	}
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed", failed)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("a query string is required")
	}

	app, err := forage.NewApp(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer app.Close()

	orch, err := app.NewOrchestrator()
	if err != nil {
		return fmt.Errorf("failed to create query orchestrator: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	hits, err := orch.Search(ctx, strings.Join(c.Args().Slice(), " "), rag.SearchOptions{
		ResultLimit: c.Int("limit"),
		MultiHit:    c.Bool("multi-hit"),
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	for _, hit := range hits {
		fmt.Println(hit.Event)
	}
	return nil
}

func resetCommand(c *cli.Context) error {
	app, err := forage.NewApp(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer app.Close()

	coord, err := app.NewCoordinator()
	if err != nil {
		return fmt.Errorf("failed to create ingestion coordinator: %w", err)
	}
	defer coord.Release()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := coord.ClearCorpus(ctx); err != nil {
		return fmt.Errorf("failed to clear corpus: %w", err)
	}
	fmt.Println("corpus cleared")
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
