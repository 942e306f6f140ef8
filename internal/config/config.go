// Package config implements the read-only configuration provider:
// max_retries and backoff_base, sourced from a YAML file at a well-known
// path. A missing file or a decode error falls back to defaults silently.
package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	defaultMaxRetries  = 3
	defaultBackoffBase = 2
)

// KeyMaxRetries and KeyBackoffBase are the only recognized config keys.
// Unknown keys passed to Get return ("", false).
const (
	KeyMaxRetries  = "max_retries"
	KeyBackoffBase = "backoff_base"
)

// fileSchema is the on-disk shape of the config file.
type fileSchema struct {
	MaxRetries  *int `yaml:"max_retries"`
	BackoffBase *int `yaml:"backoff_base"`
}

// Provider is the read-only configuration surface consumed by workers.
// Values are re-read from disk on every Get call (not cached), so operator
// edits to the file take effect for the next retry without a restart.
type Provider struct {
	path string
	mu   sync.Mutex
}

// New returns a Provider reading from path. The file need not exist yet.
func New(path string) *Provider {
	return &Provider{path: path}
}

// load reads the file, falling back to defaults on any error.
func (p *Provider) load() fileSchema {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return fileSchema{}
	}
	var f fileSchema
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fileSchema{}
	}
	return f
}

// MaxRetries returns the configured retry budget, or the default.
func (p *Provider) MaxRetries() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	f := p.load()
	if f.MaxRetries != nil {
		return *f.MaxRetries
	}
	return defaultMaxRetries
}

// BackoffBase returns the configured backoff base, or the default.
func (p *Provider) BackoffBase() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	f := p.load()
	if f.BackoffBase != nil {
		return *f.BackoffBase
	}
	return defaultBackoffBase
}

// Get returns the string representation of a recognized key. Unknown keys
// return ("", false) rather than a default.
func (p *Provider) Get(key string) (string, bool) {
	switch key {
	case KeyMaxRetries:
		return strconv.Itoa(p.MaxRetries()), true
	case KeyBackoffBase:
		return strconv.Itoa(p.BackoffBase()), true
	default:
		return "", false
	}
}

// Set persists a recognized key to the config file, creating it if absent.
// Unrecognized keys and non-integer values are rejected.
func (p *Provider) Set(key, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("value for %s must be an integer: %w", key, err)
	}

	f := p.load()
	switch key {
	case KeyMaxRetries:
		f.MaxRetries = &n
	case KeyBackoffBase:
		f.BackoffBase = &n
	default:
		return fmt.Errorf("unrecognized config key: %s", key)
	}

	out, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(p.path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", p.path, err)
	}
	return nil
}

// All returns the current effective configuration, applying defaults for
// any key absent from the file. Used by `config get` with no key argument.
func (p *Provider) All() map[string]string {
	return map[string]string{
		KeyMaxRetries:  strconv.Itoa(p.MaxRetries()),
		KeyBackoffBase: strconv.Itoa(p.BackoffBase()),
	}
}
