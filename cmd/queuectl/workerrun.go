package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sripriyakonjarla/QueueCTL-CLI-based-background-job-queue-system/internal/config"
	"github.com/sripriyakonjarla/QueueCTL-CLI-based-background-job-queue-system/internal/executor"
	"github.com/sripriyakonjarla/QueueCTL-CLI-based-background-job-queue-system/internal/store/sqlite"
	"github.com/sripriyakonjarla/QueueCTL-CLI-based-background-job-queue-system/internal/worker"
)

// runWorkerProcess is the body of a spawned worker OS process: it opens
// its own store connection, wires a FileSignal to the shared stop
// sentinel, and runs the claim/execute/record loop until either the
// sentinel appears or the process receives SIGTERM/SIGINT directly.
func runWorkerProcess(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("__worker", flag.ContinueOnError)
	id := fs.String("id", "", "worker id")
	dbPath := fs.String("db", "", "sqlite database path")
	configPath := fs.String("config", "", "config file path")
	stopFilePath := fs.String("stop-file", "", "shutdown sentinel file path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" || *dbPath == "" || *stopFilePath == "" {
		return fmt.Errorf("__worker requires --id, --db, and --stop-file")
	}

	store, err := sqlite.Open(ctx, *dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	w := worker.New(
		*id,
		store,
		config.New(*configPath),
		executor.New(executor.DefaultTimeout),
		worker.NewFileSignal(*stopFilePath),
	)

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
