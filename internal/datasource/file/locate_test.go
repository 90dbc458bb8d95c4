package file

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) string {
	t.Helper()
	if err := os.WriteFile(path, []byte("x\n"), 0o644); err != nil {
		t.Fatalf("touch %s: %v", path, err)
	}
	return path
}

func TestLocateExplicitWins(t *testing.T) {
	dir := t.TempDir()
	explicit := touch(t, filepath.Join(dir, "a.csv"))
	fallback := touch(t, filepath.Join(dir, "b.csv"))

	got, err := Locate(explicit, fallback)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if got != explicit {
		t.Fatalf("got %q want %q", got, explicit)
	}
}

func TestLocateFallsBack(t *testing.T) {
	dir := t.TempDir()
	fallback := touch(t, filepath.Join(dir, "b.csv"))

	got, err := Locate(filepath.Join(dir, "missing.csv"), fallback)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if got != fallback {
		t.Fatalf("got %q want %q", got, fallback)
	}
}

func TestLocateSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "data")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	fallback := touch(t, filepath.Join(dir, "b.csv"))

	got, err := Locate(sub, fallback)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if got != fallback {
		t.Fatalf("got %q want %q", got, fallback)
	}
}

func TestLocateNotFound(t *testing.T) {
	dir := t.TempDir()
	_, err := Locate(filepath.Join(dir, "a.csv"), filepath.Join(dir, "b.csv"), "")

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v want *NotFoundError", err)
	}
	if len(nf.Probed) != 2 {
		t.Fatalf("Probed = %v want 2 entries", nf.Probed)
	}
}

func TestLocalOpen(t *testing.T) {
	dir := t.TempDir()
	path := touch(t, filepath.Join(dir, "in.csv"))

	src := NewLocal(path)
	rc, err := src.Open(context.Background())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "x\n" {
		t.Fatalf("content = %q", b)
	}
}

func TestLocalOpenCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewLocal("whatever.csv").Open(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v want context.Canceled", err)
	}
}
