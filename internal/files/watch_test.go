package files

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestWatchReportsMonthFileWrites(t *testing.T) {
	mgr, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	date := time.Date(2025, time.November, 2, 0, 0, 0, 0, time.UTC)
	w, err := mgr.Watch(ctx, date)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	path := mgr.MonthPath(date)
	if err := os.WriteFile(path, []byte("# November 2025\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case got := <-w.Changes():
		if got != path {
			t.Fatalf("change path = %q, want %q", got, path)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for change event")
	}
}

func TestIsMonthFile(t *testing.T) {
	cases := map[string]bool{
		"/x/2025/2025-11.md": true,
		"/x/2025/diari-123":  false,
		"/x/2025/notes.md":   false,
	}
	for input, want := range cases {
		if got := isMonthFile(input); got != want {
			t.Fatalf("isMonthFile(%q) = %v, want %v", input, got, want)
		}
	}
}
