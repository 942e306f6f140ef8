package worker

import (
	"fmt"
	"os"
	"sync"
)

// StopSignal is the cooperative-cancellation contract the worker loop
// polls between iterations. This package provides two implementations:
// an in-process channel for workers running inside the same process as
// their owner (tests, the supervisor's own bookkeeping), and a sentinel
// file for workers running as independent OS processes, which cannot
// share memory.
type StopSignal interface {
	// IsSet reports whether shutdown has been requested.
	IsSet() bool
}

// ChanSignal is an in-process StopSignal backed by a channel close.
type ChanSignal struct {
	ch   chan struct{}
	once sync.Once
}

// NewChanSignal returns a ChanSignal in the unset state.
func NewChanSignal() *ChanSignal {
	return &ChanSignal{ch: make(chan struct{})}
}

// Fire sets the signal. Safe to call more than once.
func (s *ChanSignal) Fire() {
	s.once.Do(func() { close(s.ch) })
}

func (s *ChanSignal) IsSet() bool {
	select {
	case <-s.ch:
		return true
	default:
		return false
	}
}

// Done returns a channel closed once Fire has been called, for selecting
// alongside other events.
func (s *ChanSignal) Done() <-chan struct{} {
	return s.ch
}

// FileSignal is a StopSignal backed by the existence of a sentinel file.
// Independent worker processes share no memory with the supervisor that
// stops them, so they poll the filesystem instead: the supervisor creates
// the file to request shutdown, and each worker's IsSet stats it on every
// loop iteration.
type FileSignal struct {
	path string
}

// NewFileSignal returns a FileSignal watching path. The file need not
// exist yet; its absence means "not set".
func NewFileSignal(path string) *FileSignal {
	return &FileSignal{path: path}
}

func (s *FileSignal) IsSet() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Fire creates the sentinel file, requesting shutdown for every worker
// watching it.
func (s *FileSignal) Fire() error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create stop sentinel %s: %w", s.path, err)
	}
	return f.Close()
}

// Reset removes the sentinel file so the signal can be reused by a later
// start_workers call. Absence of the file is not an error.
func (s *FileSignal) Reset() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove stop sentinel %s: %w", s.path, err)
	}
	return nil
}
