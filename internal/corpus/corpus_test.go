package corpus

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestMemory_RejectsEmptyEntry(t *testing.T) {
	if _, err := NewMemory([]byte("ok"), []byte{}); err == nil {
		t.Fatalf("expected error for zero-length entry")
	}
}

func TestMemory_AppendAndGet(t *testing.T) {
	m, err := NewMemory([]byte("seed"))
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}

	if err := m.Append([]byte("second")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	if m.NumInputs() != 2 {
		t.Fatalf("expected 2 inputs, got %d", m.NumInputs())
	}

	got, ok := m.GetInput(1)
	if !ok || string(got) != "second" {
		t.Fatalf("GetInput(1) = %q, %v", got, ok)
	}

	if _, ok := m.GetInput(5); ok {
		t.Fatalf("expected GetInput out of range to fail")
	}

	if err := m.Append(nil); err == nil {
		t.Fatalf("expected error appending empty entry")
	}
}

func TestDisk_LoadAndWatch(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "seed1"), []byte("hello"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	d, err := LoadDisk(dir)
	if err != nil {
		t.Fatalf("LoadDisk: %v", err)
	}
	defer d.Close()

	if d.NumInputs() != 1 {
		t.Fatalf("expected 1 input, got %d", d.NumInputs())
	}

	if err := d.Watch(); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "seed2"), []byte("world"), 0o644); err != nil {
		t.Fatalf("second seed file: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for d.NumInputs() < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	if d.NumInputs() != 2 {
		t.Fatalf("expected watcher to pick up new file, got %d inputs", d.NumInputs())
	}
}

func TestDisk_RejectsEmptyFile(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "empty"), nil, 0o644); err != nil {
		t.Fatalf("empty file: %v", err)
	}

	if _, err := LoadDisk(dir); err == nil {
		t.Fatalf("expected error loading directory with empty file")
	}
}
