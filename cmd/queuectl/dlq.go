package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/sripriyakonjarla/QueueCTL-CLI-based-background-job-queue-system/internal/config"
	"github.com/sripriyakonjarla/QueueCTL-CLI-based-background-job-queue-system/internal/store/sqlite"
)

func cmdDLQ(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("dlq requires a subcommand: list or retry")
	}
	sub, rest := args[0], args[1:]

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

	switch sub {
	case "list":
		jobs, err := api.DLQList(ctx)
		if err != nil {
			return err
		}
		if len(jobs) == 0 {
			fmt.Println("No jobs in Dead Letter Queue")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCOMMAND\tATTEMPTS\tMAX RETRIES\tFAILED AT")
		for _, job := range jobs {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
				job.ID, truncate(job.Command, 50), job.Attempts, job.MaxRetries,
				job.UpdatedAt.Format("2006-01-02 15:04:05"))
		}
		return w.Flush()
	case "retry":
		if len(rest) != 1 {
			return fmt.Errorf("dlq retry requires exactly one argument: <id>")
		}
		id := rest[0]
		if err := api.DLQRetry(ctx, id); err != nil {
			return err
		}
		fmt.Printf("Job %q moved back to pending queue\n", id)
		return nil
	default:
		return fmt.Errorf("unrecognized dlq subcommand %q", sub)
	}
}
