package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestListPDFs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "A.PDF", "c.Pdf", "notes.txt", ".hidden.pdf"} {
		touch(t, filepath.Join(dir, name))
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.pdf"), 0o755); err != nil {
		t.Fatal(err)
	}
	touch(t, filepath.Join(dir, "sub.pdf", "nested.pdf"))

	got, stats, err := ListPDFs(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"A.PDF", "b.pdf", "c.Pdf"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if filepath.Base(got[i]) != want[i] {
			t.Errorf("got[%d] = %s, want %s", i, filepath.Base(got[i]), want[i])
		}
	}
	if stats.Matched != 3 || stats.Skipped != 3 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestListPDFs_EmptyAndMissing(t *testing.T) {
	got, _, err := ListPDFs(t.TempDir())
	if err != nil || len(got) != 0 {
		t.Errorf("empty dir: %v, %v", got, err)
	}
	if _, _, err := ListPDFs(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for a missing directory")
	}
	if _, _, err := ListPDFs(" "); err == nil {
		t.Error("expected error for a blank directory")
	}
}

func TestStartWatcher(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "existing.pdf"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	events, _, err := StartWatcher(ctx, WatchConfig{Dir: dir, InitialScan: true, Debounce: 50 * time.Millisecond}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if got := <-events; filepath.Base(got) != "existing.pdf" {
		t.Fatalf("initial event = %s", got)
	}

	touch(t, filepath.Join(dir, "ignored.txt"))
	path := filepath.Join(dir, "new.pdf")
	touch(t, path)
	touch(t, path)

	select {
	case got := <-events:
		if got != path {
			t.Errorf("event = %s, want %s", got, path)
		}
	case <-ctx.Done():
		t.Fatal("no event for new.pdf")
	}

	select {
	case got := <-events:
		t.Errorf("burst emitted twice: %s", got)
	case <-time.After(200 * time.Millisecond):
	}
}
