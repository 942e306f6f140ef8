package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/uuid"

	"github.com/sripriyakonjarla/QueueCTL-CLI-based-background-job-queue-system/internal/config"
	"github.com/sripriyakonjarla/QueueCTL-CLI-based-background-job-queue-system/internal/store/sqlite"
)

func cmdEnqueue(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("enqueue", flag.ContinueOnError)
	idFlag := fs.String("id", "", "job id (default: a generated uuid)")
	maxRetries := fs.Int("max-retries", -1, "override the configured retry budget for this job")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fatalf(fs, "enqueue requires exactly one argument: <command>")
	}
	command := fs.Arg(0)

	id := *idFlag
	if id == "" {
		id = uuid.NewString()
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

	var retries *int
	if *maxRetries >= 0 {
		retries = maxRetries
	}
	if err := api.Enqueue(ctx, id, command, retries); err != nil {
		return err
	}
	fmt.Printf("Job %q enqueued successfully\n", id)
	return nil
}
