package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRotatingWriterCreatesWeeklyFile(t *testing.T) {
	dir := t.TempDir()
	rw := NewRotatingWriter(dir, 4, 0)
	defer rw.Close()

	if _, err := rw.Write([]byte("hello\n")); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	want := filepath.Join(dir, fmt.Sprintf("clinic-%s.log", weekKey(time.Now())))
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("expected log file %s: %v", want, err)
	}
	if string(data) != "hello\n" {
		t.Errorf("unexpected file content: %q", data)
	}
}

func TestRotatingWriterSizeRotation(t *testing.T) {
	dir := t.TempDir()
	rw := NewRotatingWriter(dir, 4, 10)
	defer rw.Close()

	// Two writes of 8 bytes exceed the 10-byte cap, forcing a second file.
	for i := 0; i < 2; i++ {
		if _, err := rw.Write([]byte("12345678")); err != nil {
			t.Fatalf("write %d failed: %v", i, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 log files after size rotation, got %d", len(entries))
	}
}

func TestRotatingWriterCleanup(t *testing.T) {
	dir := t.TempDir()

	old := filepath.Join(dir, "clinic-2020-W01.log")
	if err := os.WriteFile(old, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-60 * 24 * time.Hour)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatal(err)
	}

	rw := NewRotatingWriter(dir, 4, 0)
	defer rw.Close()
	if _, err := rw.Write([]byte("fresh\n")); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Errorf("expected stale log to be removed, err=%v", err)
	}
}

func TestInitFallsBackWithoutDir(t *testing.T) {
	// A file where the directory should be makes MkdirAll fail.
	base := t.TempDir()
	blocked := filepath.Join(base, "occupied")
	if err := os.WriteFile(blocked, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	logger := Init(blocked, "info", 4, 0)
	defer Shutdown()

	if logger == nil {
		t.Fatal("Init should always return a logger")
	}

	entries, _ := os.ReadDir(base)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "clinic-") {
			t.Errorf("no log files should exist, found %s", e.Name())
		}
	}
}
