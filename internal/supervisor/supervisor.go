// Package supervisor implements the worker pool manager: it spawns a
// requested count of independent OS processes, tracks them both in memory
// and in an on-disk PID ledger so a later invocation of the control plane
// can still find and stop them, and drives the graceful-then-forced
// shutdown sequence.
//
// Each worker is a full child process produced by re-executing the
// current binary with arguments the caller supplies (SpawnArgs), not a
// goroutine sharing this process's memory.
package supervisor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/sripriyakonjarla/QueueCTL-CLI-based-background-job-queue-system/internal/domain"
	"github.com/sripriyakonjarla/QueueCTL-CLI-based-background-job-queue-system/internal/worker"
)

// joinWait is how long stop_workers waits for a known in-memory process to
// exit on its own before escalating to SIGTERM, mirroring the original's
// process.join(timeout=5).
const joinWait = 5 * time.Second

// terminateWait is how long stop_workers waits after SIGTERM before
// escalating to SIGKILL for in-memory processes.
const terminateWait = 2 * time.Second

// ledgerOnlyWait is the shorter grace period given to PIDs known only
// through the ledger (from a prior, now-gone invocation), before they too
// are force-killed.
const ledgerOnlyWait = 1 * time.Second

// handle tracks one worker process this Supervisor instance itself spawned.
type handle struct {
	workerID string
	cmd      *exec.Cmd
	done     chan struct{}
}

func (h *handle) pid() int { return h.cmd.Process.Pid }

func (h *handle) alive() bool {
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

// Supervisor starts and stops worker processes and tracks how many are
// currently running.
type Supervisor struct {
	// Ledger persists spawned PIDs across control-plane invocations.
	Ledger *Ledger
	// Stop is the cross-process shutdown signal every worker polls.
	Stop *worker.FileSignal
	// Executable is the binary to re-exec for each worker. Defaults to
	// os.Executable() if empty.
	Executable string
	// SpawnArgs builds the argv (excluding argv[0]) used to launch a
	// worker process with the given worker_id. Set by the CLI layer,
	// which knows its own hidden subcommand shape.
	SpawnArgs func(workerID string) []string

	mu      sync.Mutex
	handles []*handle
}

// New constructs a Supervisor. ledgerPath and stopFilePath are files under
// the queue's state directory.
func New(ledgerPath, stopFilePath string, spawnArgs func(workerID string) []string) *Supervisor {
	return &Supervisor{
		Ledger:    NewLedger(ledgerPath),
		Stop:      worker.NewFileSignal(stopFilePath),
		SpawnArgs: spawnArgs,
	}
}

// StartWorkers stops any workers already running, then launches count new
// worker processes and records their PIDs. The returned int is the number
// actually started; a spawn failure partway through is reported but does
// not unwind the workers already launched.
func (s *Supervisor) StartWorkers(ctx context.Context, count int) (int, error) {
	s.StopWorkers(ctx)

	exe := s.Executable
	if exe == "" {
		found, err := os.Executable()
		if err != nil {
			return 0, fmt.Errorf("%w: resolve executable: %v", domain.ErrSupervisorFailure, err)
		}
		exe = found
	}

	if err := s.Stop.Reset(); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrSupervisorFailure, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	supervisorPID := os.Getpid()
	handles := make([]*handle, 0, count)
	pids := make([]int, 0, count)
	var firstErr error

	for i := 0; i < count; i++ {
		workerID := fmt.Sprintf("worker-%d-%d", supervisorPID, i)
		cmd := exec.Command(exe, s.SpawnArgs(workerID)...)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		setProcessGroup(cmd)

		if err := cmd.Start(); err != nil {
			slog.ErrorContext(ctx, "failed to start worker process", "worker_id", workerID, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("%w: start %s: %v", domain.ErrSupervisorFailure, workerID, err)
			}
			continue
		}

		h := &handle{workerID: workerID, cmd: cmd, done: make(chan struct{})}
		go func(h *handle) {
			_ = h.cmd.Wait()
			close(h.done)
		}(h)

		handles = append(handles, h)
		pids = append(pids, h.pid())
		slog.InfoContext(ctx, "worker process started", "worker_id", workerID, "pid", h.pid())
	}

	s.handles = handles
	if err := s.Ledger.Save(pids); err != nil {
		slog.ErrorContext(ctx, "failed to persist pid ledger", "error", err)
	}

	return len(handles), firstErr
}

// StopWorkers requests shutdown of every worker this Supervisor knows
// about, whether tracked in memory or recovered from the ledger: a
// graceful wait, then SIGTERM, then SIGKILL.
func (s *Supervisor) StopWorkers(ctx context.Context) {
	_ = s.Stop.Fire()

	s.mu.Lock()
	handles := s.handles
	s.handles = nil
	s.mu.Unlock()

	var wg sync.WaitGroup
	for _, h := range handles {
		wg.Add(1)
		go func(h *handle) {
			defer wg.Done()
			s.stopHandle(ctx, h)
		}(h)
	}
	wg.Wait()

	knownPIDs := make(map[int]bool, len(handles))
	for _, h := range handles {
		knownPIDs[h.pid()] = true
	}

	for _, pid := range s.Ledger.Load() {
		if knownPIDs[pid] {
			continue
		}
		stopLedgerPID(ctx, pid)
	}

	if err := s.Ledger.Clear(); err != nil {
		slog.ErrorContext(ctx, "failed to clear pid ledger", "error", err)
	}
	if err := s.Stop.Reset(); err != nil {
		slog.ErrorContext(ctx, "failed to reset stop sentinel", "error", err)
	}
}

// stopHandle waits for a process this Supervisor spawned to exit, then
// escalates through SIGTERM and SIGKILL if it doesn't.
func (s *Supervisor) stopHandle(ctx context.Context, h *handle) {
	if waitFor(h.done, joinWait) {
		return
	}
	slog.WarnContext(ctx, "worker did not stop within grace window, sending SIGTERM", "worker_id", h.workerID, "pid", h.pid())
	_ = signalPID(h.pid(), sigTerm)

	if waitFor(h.done, terminateWait) {
		return
	}
	slog.WarnContext(ctx, "worker still alive after SIGTERM, sending SIGKILL", "worker_id", h.workerID, "pid", h.pid())
	_ = signalPID(h.pid(), sigKill)
	waitFor(h.done, terminateWait)
}

// stopLedgerPID handles a PID recovered only from the ledger: this
// Supervisor has no process handle to wait on, so it polls liveness
// instead of blocking on an exit channel.
func stopLedgerPID(ctx context.Context, pid int) {
	if err := signalPID(pid, sigTerm); err != nil {
		return // process already gone, or not ours to signal
	}
	time.Sleep(ledgerOnlyWait)
	if pidAlive(pid) {
		slog.WarnContext(ctx, "ledger-recovered worker still alive after SIGTERM, sending SIGKILL", "pid", pid)
		_ = signalPID(pid, sigKill)
	}
}

// ActiveWorkerCount reports how many worker processes are currently
// running, combining in-memory handles with any ledger PIDs they don't
// already cover, so the count stays accurate across a fresh invocation
// with no in-memory handles of its own.
func (s *Supervisor) ActiveWorkerCount() int {
	s.mu.Lock()
	handles := s.handles
	s.mu.Unlock()

	known := make(map[int]bool, len(handles))
	count := 0
	for _, h := range handles {
		known[h.pid()] = true
		if h.alive() {
			count++
		}
	}

	for _, pid := range s.Ledger.Load() {
		if known[pid] {
			continue
		}
		if pidAlive(pid) {
			count++
		}
	}
	return count
}

// waitFor blocks until done is closed or timeout elapses, reporting
// whether done closed in time.
func waitFor(done <-chan struct{}, timeout time.Duration) bool {
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
