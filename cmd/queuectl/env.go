package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sripriyakonjarla/QueueCTL-CLI-based-background-job-queue-system/internal/config"
	"github.com/sripriyakonjarla/QueueCTL-CLI-based-background-job-queue-system/internal/control"
	"github.com/sripriyakonjarla/QueueCTL-CLI-based-background-job-queue-system/internal/store/sqlite"
	"github.com/sripriyakonjarla/QueueCTL-CLI-based-background-job-queue-system/internal/supervisor"
)

// stateDir is the queue's home directory, mirroring the original
// implementation's Path.home() / ".queuectl" layout.
func stateDir() (string, error) {
	if dir := os.Getenv("QUEUECTL_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".queuectl"), nil
}

// paths bundles the well-known file locations under the state directory.
type paths struct {
	dbPath       string
	configPath   string
	ledgerPath   string
	stopFilePath string
}

func resolvePaths() (paths, error) {
	dir, err := stateDir()
	if err != nil {
		return paths{}, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return paths{}, fmt.Errorf("create state directory %s: %w", dir, err)
	}
	return paths{
		dbPath:       filepath.Join(dir, "queue.db"),
		configPath:   filepath.Join(dir, "config.yaml"),
		ledgerPath:   filepath.Join(dir, "workers.pid"),
		stopFilePath: filepath.Join(dir, "stop.signal"),
	}, nil
}

// workerSpawnArgs builds the argv used to re-exec this same binary as a
// worker process, via the hidden "__worker" subcommand.
func workerSpawnArgs(p paths) func(workerID string) []string {
	return func(workerID string) []string {
		return []string{
			"__worker",
			"--id", workerID,
			"--db", p.dbPath,
			"--config", p.configPath,
			"--stop-file", p.stopFilePath,
		}
	}
}

func newSupervisor(p paths) *supervisor.Supervisor {
	return supervisor.New(p.ledgerPath, p.stopFilePath, workerSpawnArgs(p))
}

func newControlAPI(store *sqlite.Store, cfg *config.Provider) *control.API {
	return control.New(store, cfg)
}
