package backup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"termcal/internal/store"
)

func TestSnapshotWritesCSV(t *testing.T) {
	tmp := t.TempDir()

	st, err := store.Open(filepath.Join(tmp, "test.db"), store.Defaults{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	if _, err := st.AddEvent("2025-09-23", "", "校外教學", false); err != nil {
		t.Fatalf("AddEvent: %v", err)
	}

	dir := filepath.Join(tmp, "backups")
	r, err := Start(st, "0 0 1 1 *", dir)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer r.Stop()

	r.snapshot()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("snapshot count = %d, want 1", len(entries))
	}
	name := entries[0].Name()
	if !strings.HasPrefix(name, "schedule-") || !strings.HasSuffix(name, ".csv") {
		t.Fatalf("snapshot name = %q", name)
	}

	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "校外教學") {
		t.Fatalf("snapshot missing event row:\n%s", data)
	}
}

func TestStartRejectsBadCronSpec(t *testing.T) {
	tmp := t.TempDir()

	st, err := store.Open(filepath.Join(tmp, "test.db"), store.Defaults{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	if _, err := Start(st, "not a cron spec", filepath.Join(tmp, "backups")); err == nil {
		t.Fatal("expected error for invalid cron spec")
	}
}
