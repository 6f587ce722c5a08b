package spool

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_HandlesExistingAndNewFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.request"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	handled := make(chan string, 8)
	h := HandlerFunc(func(ctx context.Context, path string) error {
		handled <- filepath.Base(path)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w := NewWatcher(dir, 20*time.Millisecond, h, nil)
	errc := make(chan error, 1)
	go func() { errc <- w.Run(ctx) }()

	expect(t, handled, "a.request")

	if err := os.WriteFile(filepath.Join(dir, "b.request"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	expect(t, handled, "b.request")

	if err := os.WriteFile(filepath.Join(dir, "c.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case name := <-handled:
		t.Errorf("unexpected file handled: %s", name)
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-errc:
		if err != context.Canceled {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "missing"), 0, HandlerFunc(func(context.Context, string) error { return nil }), nil)
	if err := w.Run(context.Background()); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestIsRequestFile(t *testing.T) {
	tests := map[string]bool{
		"/x/a.request":                 true,
		"b.request":                    true,
		".a.request.123.tmp":           false,
		".hidden.request":              false,
		"a.request.txt":                false,
		"fdsnws.2020.01.01.IRIS.mseed": false,
	}
	for name, want := range tests {
		if got := isRequestFile(name); got != want {
			t.Errorf("isRequestFile(%q) = %v, want %v", name, got, want)
		}
	}
}

func expect(t *testing.T, ch <-chan string, want string) {
	t.Helper()
	select {
	case got := <-ch:
		if got != want {
			t.Errorf("handled %s, want %s", got, want)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for %s", want)
	}
}
