package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/sripriyakonjarla/QueueCTL-CLI-based-background-job-queue-system/internal/config"
	"github.com/sripriyakonjarla/QueueCTL-CLI-based-background-job-queue-system/internal/domain"
	"github.com/sripriyakonjarla/QueueCTL-CLI-based-background-job-queue-system/internal/store/sqlite"
)

var validStates = map[string]domain.State{
	"pending":    domain.StatePending,
	"processing": domain.StateProcessing,
	"completed":  domain.StateCompleted,
	"failed":     domain.StateFailed,
	"dead":       domain.StateDead,
}

func cmdList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	stateFlag := fs.String("state", "", "filter by state (pending, processing, completed, failed, dead)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var state domain.State
	if *stateFlag != "" {
		s, ok := validStates[*stateFlag]
		if !ok {
			return fatalf(fs, "unrecognized --state %q", *stateFlag)
		}
		state = s
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
	jobs, err := api.List(ctx, state)
	if err != nil {
		return err
	}

	if len(jobs) == 0 {
		fmt.Println("No jobs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCOMMAND\tSTATE\tATTEMPTS\tMAX RETRIES\tCREATED AT")
	for _, job := range jobs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			job.ID, truncate(job.Command, 50), job.State, job.Attempts, job.MaxRetries,
			job.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
