package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_MissingFile_ReturnsDefaults(t *testing.T) {
	p := New(filepath.Join(t.TempDir(), "does-not-exist.yaml"))

	assert.Equal(t, defaultMaxRetries, p.MaxRetries())
	assert.Equal(t, defaultBackoffBase, p.BackoffBase())
}

func TestProvider_SetThenGet_RoundTrips(t *testing.T) {
	p := New(filepath.Join(t.TempDir(), "config.yaml"))

	require.NoError(t, p.Set(KeyMaxRetries, "7"))
	require.NoError(t, p.Set(KeyBackoffBase, "3"))

	assert.Equal(t, 7, p.MaxRetries())
	assert.Equal(t, 3, p.BackoffBase())

	value, ok := p.Get(KeyMaxRetries)
	require.True(t, ok)
	assert.Equal(t, "7", value)
}

func TestProvider_Set_RejectsUnknownKey(t *testing.T) {
	p := New(filepath.Join(t.TempDir(), "config.yaml"))
	err := p.Set("not_a_real_key", "1")
	assert.Error(t, err)
}

func TestProvider_Set_RejectsNonInteger(t *testing.T) {
	p := New(filepath.Join(t.TempDir(), "config.yaml"))
	err := p.Set(KeyMaxRetries, "not-a-number")
	assert.Error(t, err)
}

func TestProvider_Get_UnknownKey(t *testing.T) {
	p := New(filepath.Join(t.TempDir(), "config.yaml"))
	_, ok := p.Get("nope")
	assert.False(t, ok)
}

func TestProvider_CorruptFile_FallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_retries: [1, 2"), 0o644))

	p := New(path)
	assert.Equal(t, defaultMaxRetries, p.MaxRetries())
}

func TestProvider_All_AppliesDefaultsForMissingKeys(t *testing.T) {
	p := New(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, p.Set(KeyBackoffBase, "5"))

	all := p.All()
	assert.Equal(t, "3", all[KeyMaxRetries])
	assert.Equal(t, "5", all[KeyBackoffBase])
}
