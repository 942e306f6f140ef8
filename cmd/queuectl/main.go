// Command queuectl is a CLI-based background job queue: it enqueues
// shell commands as durable jobs, runs a pool of worker processes that
// claim and execute them, retries failures with exponential backoff, and
// parks jobs that exhaust their retry budget in a dead letter queue for
// manual inspection.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run dispatches to a subcommand (enqueue, list, status, worker,
// dlq, config) and returns the process exit code: 0 on success,
// non-zero whenever the command printed an "Error:" line.
func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	ctx := context.Background()
	cmd, rest := args[0], args[1:]

	var err error
	switch cmd {
	case "enqueue":
		err = cmdEnqueue(ctx, rest)
	case "list":
		err = cmdList(ctx, rest)
	case "status":
		err = cmdStatus(ctx, rest)
	case "worker":
		err = cmdWorker(ctx, rest)
	case "dlq":
		err = cmdDLQ(ctx, rest)
	case "config":
		err = cmdConfig(ctx, rest)
	case "__worker":
		// Hidden entry point: the supervisor re-execs this binary with
		// this subcommand to run a single worker loop as its own
		// process. Not part of the documented CLI surface.
		err = runWorkerProcess(ctx, rest)
	case "-h", "--help", "help":
		printUsage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n", cmd)
		printUsage()
		return 1
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: queuectl <command> [arguments]

commands:
  enqueue [--id ID] [--max-retries N] <command>   enqueue a new job
  list [--state STATE]                       list jobs, optionally filtered
  status                                      show job state counts and active workers
  worker start [--count N]                    start N worker processes (default 1)
  worker stop                                 stop all running worker processes
  dlq list                                    list jobs in the dead letter queue
  dlq retry <id>                              move a dead job back to pending
  config get [KEY]                            print one or all config values
  config set <KEY> <VALUE>                    set a config value`)
}

// fatalf is a small helper for subcommands that hit a usage error before
// they have a chance to build the shared environment.
func fatalf(fs *flag.FlagSet, format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	fs.Usage()
	return err
}
