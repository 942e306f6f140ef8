package main

import (
	"context"
	"flag"
	"fmt"
)

func cmdWorker(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("worker requires a subcommand: start or stop")
	}
	sub, rest := args[0], args[1:]

	p, err := resolvePaths()
	if err != nil {
		return err
	}
	sup := newSupervisor(p)

	switch sub {
	case "start":
		fs := flag.NewFlagSet("worker start", flag.ContinueOnError)
		count := fs.Int("count", 1, "number of worker processes to start")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *count < 1 {
			return fatalf(fs, "--count must be at least 1")
		}
		started, err := sup.StartWorkers(ctx, *count)
		if err != nil {
			return err
		}
		fmt.Printf("Started %d worker(s)\n", started)
		return nil
	case "stop":
		sup.StopWorkers(ctx)
		fmt.Println("All workers stopped")
		return nil
	default:
		return fmt.Errorf("unrecognized worker subcommand %q", sub)
	}
}
