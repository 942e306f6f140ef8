package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/sripriyakonjarla/QueueCTL-CLI-based-background-job-queue-system/internal/config"
	"github.com/sripriyakonjarla/QueueCTL-CLI-based-background-job-queue-system/internal/store/sqlite"
)

func cmdStatus(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	p, err := resolvePaths()
	if err != nil {
		return err
	}
	store, err := sqlite.Open(ctx, p.dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	api := newControlAPI(store, config.New(p.configPath))
	stats, err := api.Stats(ctx)
	if err != nil {
		return err
	}

	active := newSupervisor(p).ActiveWorkerCount()

	fmt.Println("=== Queue Status ===")
	fmt.Printf("Active Workers: %d\n\n", active)
	fmt.Println("State       Count")
	fmt.Printf("Pending     %d\n", stats.Pending)
	fmt.Printf("Processing  %d\n", stats.Processing)
	fmt.Printf("Completed   %d\n", stats.Completed)
	fmt.Printf("Failed      %d\n", stats.Failed)
	fmt.Printf("Dead (DLQ)  %d\n", stats.Dead)
	return nil
}
