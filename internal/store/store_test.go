package store

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenSQLite_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpenSQLite_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	for i := 0; i < 3; i++ {
		s, err := OpenSQLite(path)
		if err != nil {
			t.Fatalf("OpenSQLite() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("final OpenSQLite() failed: %v", err)
	}
	defer s.Close()

	for _, table := range []string{"sync_records", "sync_runs"} {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found after idempotent opens: %v", table, err)
		}
	}
}

func TestOpenSQLite_InvalidPath(t *testing.T) {
	_, err := OpenSQLite("/nonexistent/dir/state.db")
	if err == nil {
		t.Error("expected error for invalid path, got nil")
	}
}

func TestSQLite_CloseNilDB(t *testing.T) {
	s := &SQLite{db: nil}
	if err := s.Close(); err != nil {
		t.Errorf("Close() on nil db should not error: %v", err)
	}
}

func TestSQLite_Pragmas(t *testing.T) {
	s := openTestDB(t)

	tests := []struct {
		name, want string
	}{
		{"journal_mode", "wal"},
		{"synchronous", "1"}, // NORMAL
		{"busy_timeout", "5000"},
	}
	for _, tt := range tests {
		var got string
		if err := s.db.QueryRow("PRAGMA " + tt.name).Scan(&got); err != nil {
			t.Fatalf("PRAGMA %s: %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestSQLite_SchemaVersion(t *testing.T) {
	s := openTestDB(t)

	v, err := s.schemaVersion()
	if err != nil {
		t.Fatal(err)
	}
	if v != currentSchemaVersion {
		t.Errorf("user_version = %d, want %d", v, currentSchemaVersion)
	}

	var name string
	err = s.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='index' AND name='idx_sync_runs_started'",
	).Scan(&name)
	if err == sql.ErrNoRows {
		t.Error("migration index idx_sync_runs_started missing")
	} else if err != nil {
		t.Fatal(err)
	}
}

func TestSQLite_LoadEmpty(t *testing.T) {
	s := openTestDB(t)

	st, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if st == nil || len(st) != 0 {
		t.Errorf("Load() = %v, want empty non-nil state", st)
	}
}

func TestSQLite_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	want := State{
		"1": {SpecHash: "uhCkkAQID", ResourceHash: "u__79"},
		"2": {SpecHash: "uhCkkAQIE", ResourceHash: "uhCkkAQIF"},
	}
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	s.Close()

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	got, err := reopened.Load(ctx)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("Load() returned %d records, want %d", len(got), len(want))
	}
	for k, r := range want {
		if got[k] != r {
			t.Errorf("record %s = %+v, want %+v", k, got[k], r)
		}
	}
}

func TestSQLite_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	s := openTestDB(t)

	if err := s.Save(ctx, State{"1": {SpecHash: "ua", ResourceHash: "ub"}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, State{"2": {SpecHash: "uc", ResourceHash: "ud"}}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.Has("1") || !got.Has("2") {
		t.Errorf("Load() = %v, want only key 2", got)
	}
}

func TestSQLite_RecordAndListRuns(t *testing.T) {
	ctx := context.Background()
	s := openTestDB(t)

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	runs := []Run{
		{ID: "run-a", StartedAt: base, FinishedAt: base.Add(time.Second), SpecsCreated: 4, ResourcesCreated: 4},
		{ID: "run-b", StartedAt: base.Add(time.Hour), FinishedAt: base.Add(time.Hour + time.Second), Skipped: 4},
		{ID: "run-c", StartedAt: base.Add(2 * time.Hour), FinishedAt: base.Add(2*time.Hour + time.Second), SpecsCreated: 1, ErrorCount: 1},
	}
	for _, r := range runs {
		if err := s.RecordRun(ctx, r); err != nil {
			t.Fatalf("RecordRun(%s) failed: %v", r.ID, err)
		}
	}
	// Duplicate IDs are ignored.
	if err := s.RecordRun(ctx, runs[0]); err != nil {
		t.Fatalf("duplicate RecordRun failed: %v", err)
	}

	all, err := s.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns() failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("ListRuns() returned %d runs, want 3", len(all))
	}
	if all[0].ID != "run-c" || all[2].ID != "run-a" {
		t.Errorf("ListRuns() order = %s,%s,%s; want most recent first", all[0].ID, all[1].ID, all[2].ID)
	}
	if !all[2].StartedAt.Equal(base) || all[2].SpecsCreated != 4 || all[2].ResourcesCreated != 4 {
		t.Errorf("run-a = %+v", all[2])
	}
	if all[0].ErrorCount != 1 {
		t.Errorf("run-c error count = %d, want 1", all[0].ErrorCount)
	}

	limited, err := s.ListRuns(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 || limited[0].ID != "run-c" {
		t.Errorf("ListRuns(1) = %+v", limited)
	}
}

func TestSQLite_ListRunsOrdersWithinSecond(t *testing.T) {
	ctx := context.Background()
	s := openTestDB(t)

	// Whole-second and sub-second starts must order by time, not by text length.
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	runs := []Run{
		{ID: "whole", StartedAt: base},
		{ID: "half", StartedAt: base.Add(500 * time.Millisecond)},
		{ID: "later", StartedAt: base.Add(500*time.Millisecond + 10*time.Microsecond)},
	}
	for _, r := range runs {
		r.FinishedAt = r.StartedAt
		if err := s.RecordRun(ctx, r); err != nil {
			t.Fatalf("RecordRun(%s) failed: %v", r.ID, err)
		}
	}

	got, err := s.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns() failed: %v", err)
	}
	var ids []string
	for _, r := range got {
		ids = append(ids, r.ID)
	}
	want := []string{"later", "half", "whole"}
	if len(ids) != len(want) || ids[0] != want[0] || ids[1] != want[1] || ids[2] != want[2] {
		t.Errorf("ListRuns() order = %v, want %v", ids, want)
	}
	if !got[1].StartedAt.Equal(base.Add(500 * time.Millisecond)) {
		t.Errorf("half started_at = %v", got[1].StartedAt)
	}
}

func TestOpenExisting(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.db")

	_, err := OpenExisting(KindSQLite, missing)
	if !errors.Is(err, ErrNoState) || !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("OpenExisting(sqlite, missing) error = %v, want ErrNoState", err)
	}
	if _, statErr := os.Stat(missing); !os.IsNotExist(statErr) {
		t.Fatalf("OpenExisting created %s", missing)
	}

	// A missing JSON file reads as empty state.
	b, err := OpenExisting(KindJSON, filepath.Join(dir, "missing.json"))
	if err != nil {
		t.Fatalf("OpenExisting(json, missing) failed: %v", err)
	}
	st, err := b.Load(context.Background())
	if err != nil || len(st) != 0 {
		t.Fatalf("Load() = %v, %v; want empty state", st, err)
	}

	existing := filepath.Join(dir, "state.db")
	created, err := OpenSQLite(existing)
	if err != nil {
		t.Fatal(err)
	}
	created.Close()
	reopened, err := OpenExisting(KindSQLite, existing)
	if err != nil {
		t.Fatalf("OpenExisting(sqlite, existing) failed: %v", err)
	}
	reopened.Close()
}
