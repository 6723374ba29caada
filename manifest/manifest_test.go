package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/quillvm/quill/vm"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "quill.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing quill.toml: %v", err)
	}
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeConfig(t, `
[array]
flatten-child-limit = 16

[heap]
log-sweeps = true

[snapshot]
path = "arrays.db"
`)
	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Array.FlattenChildLimit != 16 {
		t.Errorf("FlattenChildLimit = %d, want 16", c.Array.FlattenChildLimit)
	}
	if !c.Heap.LogSweeps {
		t.Error("LogSweeps should be true")
	}
	if c.Snapshot.Path != "arrays.db" {
		t.Errorf("Snapshot.Path = %q, want arrays.db", c.Snapshot.Path)
	}
	if c.Dir != dir {
		t.Errorf("Dir = %q, want %q", c.Dir, dir)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("Load without quill.toml should fail")
	}
}

func TestLoadOrDefault(t *testing.T) {
	c, err := LoadOrDefault(t.TempDir())
	if err != nil {
		t.Fatalf("LoadOrDefault failed: %v", err)
	}
	if c.Array.FlattenChildLimit != vm.DefaultTuning().FlattenChildLimit {
		t.Errorf("default FlattenChildLimit = %d, want %d",
			c.Array.FlattenChildLimit, vm.DefaultTuning().FlattenChildLimit)
	}
}

func TestLoadBadToml(t *testing.T) {
	dir := writeConfig(t, `[array` + "\n")
	if _, err := Load(dir); err == nil {
		t.Error("Load with malformed toml should fail")
	}
}

func TestApply(t *testing.T) {
	defer vm.SetTuning(vm.DefaultTuning())

	dir := writeConfig(t, `
[array]
flatten-child-limit = 2

[heap]
log-sweeps = true
`)
	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	heap := vm.NewHeap()
	c.Apply(heap)
	if !heap.LogSweeps {
		t.Error("Apply should enable sweep logging")
	}

	// The limit is live: a third child flattens the aggregate.
	a := vm.NewArrayConcat(
		vm.NewArray([]vm.Value{vm.FromSmallInt(1)}),
		vm.NewArray([]vm.Value{vm.FromSmallInt(2)}),
	)
	if err := a.Concat(vm.NewArray([]vm.Value{vm.FromSmallInt(3)})); err != nil {
		t.Fatalf("Concat failed: %v", err)
	}
	if a.Kind() != vm.KindBuffer {
		t.Errorf("kind = %s, want buffer once past the configured limit", a.Kind())
	}
}
