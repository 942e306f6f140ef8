package main

import (
	"context"
	"fmt"

	"github.com/sripriyakonjarla/QueueCTL-CLI-based-background-job-queue-system/internal/config"
)

func cmdConfig(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("config requires a subcommand: get or set")
	}
	sub, rest := args[0], args[1:]

	p, err := resolvePaths()
	if err != nil {
		return err
	}
	cfg := config.New(p.configPath)

	switch sub {
	case "get":
		if len(rest) == 0 {
			for k, v := range cfg.All() {
				fmt.Printf("%s = %s\n", k, v)
			}
			return nil
		}
		if len(rest) != 1 {
			return fmt.Errorf("config get takes at most one argument: [key]")
		}
		value, ok := cfg.Get(rest[0])
		if !ok {
			return fmt.Errorf("unrecognized config key: %s", rest[0])
		}
		fmt.Println(value)
		return nil
	case "set":
		if len(rest) != 2 {
			return fmt.Errorf("config set requires exactly two arguments: <key> <value>")
		}
		if err := cfg.Set(rest[0], rest[1]); err != nil {
			return err
		}
		fmt.Printf("Set %s = %s\n", rest[0], rest[1])
		return nil
	default:
		return fmt.Errorf("unrecognized config subcommand %q", sub)
	}
}
