package supervisor

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ledgerSchema is the on-disk shape of the PID ledger: a YAML mapping
// with a single "pids" key holding the list of worker process IDs.
type ledgerSchema struct {
	PIDs []int `yaml:"pids"`
}

// Ledger persists the set of worker OS process identifiers spawned by any
// invocation of the supervisor, so a fresh control-plane invocation with
// no in-memory handles can still find and stop them.
type Ledger struct {
	path string
}

// NewLedger returns a Ledger backed by the file at path.
func NewLedger(path string) *Ledger {
	return &Ledger{path: path}
}

// Load returns the persisted PIDs. A missing file or a parse error is
// tolerated as an empty ledger.
func (l *Ledger) Load() []int {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil
	}
	var schema ledgerSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil
	}
	return schema.PIDs
}

// Save overwrites the ledger with pids.
func (l *Ledger) Save(pids []int) error {
	out, err := yaml.Marshal(ledgerSchema{PIDs: pids})
	if err != nil {
		return fmt.Errorf("marshal pid ledger: %w", err)
	}
	if err := os.WriteFile(l.path, out, 0o644); err != nil {
		return fmt.Errorf("write pid ledger %s: %w", l.path, err)
	}
	return nil
}

// Clear removes the ledger file. Absence is not an error.
func (l *Ledger) Clear() error {
	err := os.Remove(l.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove pid ledger %s: %w", l.path, err)
	}
	return nil
}
