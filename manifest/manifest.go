// Package manifest handles quill.toml runtime configuration.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/quillvm/quill/vm"
)

// Config represents a quill.toml runtime configuration.
type Config struct {
	Array    ArrayConfig    `toml:"array"`
	Heap     HeapConfig     `toml:"heap"`
	Snapshot SnapshotConfig `toml:"snapshot"`

	// Dir is the directory containing the quill.toml file (set at load time).
	Dir string `toml:"-"`
}

// ArrayConfig tunes the array engine's representation heuristics.
type ArrayConfig struct {
	FlattenChildLimit int `toml:"flatten-child-limit"`
}

// HeapConfig configures heap sweeping.
type HeapConfig struct {
	LogSweeps bool `toml:"log-sweeps"`
}

// SnapshotConfig configures the snapshot store.
type SnapshotConfig struct {
	Path string `toml:"path"`
}

// Default returns the configuration used when no quill.toml exists.
func Default() *Config {
	return &Config{
		Array: ArrayConfig{FlattenChildLimit: vm.DefaultTuning().FlattenChildLimit},
	}
}

// Load parses a quill.toml file from the given directory.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, "quill.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	c.Dir = dir
	return &c, nil
}

// LoadOrDefault loads quill.toml from dir, falling back to the defaults when
// the file does not exist.
func LoadOrDefault(dir string) (*Config, error) {
	c, err := Load(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	return c, nil
}

// Tuning converts the array section into the engine's tuning knobs.
func (c *Config) Tuning() vm.Tuning {
	return vm.Tuning{FlattenChildLimit: c.Array.FlattenChildLimit}
}

// Apply installs the configuration into the engine: array tuning globally
// and sweep logging on the given heap (when non-nil).
func (c *Config) Apply(heap *vm.Heap) {
	vm.SetTuning(c.Tuning())
	if heap != nil {
		heap.LogSweeps = c.Heap.LogSweeps
	}
}
