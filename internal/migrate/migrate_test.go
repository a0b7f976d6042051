package migrate

import (
	"context"
	"database/sql"
	"testing"
	"testing/fstest"

	_ "github.com/mattn/go-sqlite3"
)

func openMemDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRun_CreatesFetchLog(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()

	if err := Run(ctx, db); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO fetch_log (day, window_start, window_end, query_gt, query_lt, outcome, fetched_at)
		VALUES ('2024-03-01', 'a', 'b', 'c', 'd', 'ok', 'e')`); err != nil {
		t.Fatalf("fetch_log not usable after migration: %v", err)
	}

	// second run is a no-op
	if err := Run(ctx, db); err != nil {
		t.Fatalf("second Run: %v", err)
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("schema_migrations rows = %d; want 1", n)
	}
}

func TestRun_OrdersAndSkipsNonMigrations(t *testing.T) {
	db := openMemDB(t)
	fsys := fstest.MapFS{
		"m/0002_second.sql": {Data: []byte(`INSERT INTO things (id) VALUES (1);`)},
		"m/0001_first.sql":  {Data: []byte(`CREATE TABLE things (id INTEGER);`)},
		"m/README.md":       {Data: []byte(`not sql`)},
	}

	if err := run(context.Background(), db, fsys, "m"); err != nil {
		t.Fatalf("run: %v", err)
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM things`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("things rows = %d; want 1", n)
	}
}

func TestRun_FailedMigrationRollsBack(t *testing.T) {
	db := openMemDB(t)
	fsys := fstest.MapFS{
		"m/0001_broken.sql": {Data: []byte(`CREATE TABLE ok (id INTEGER); CREATE TABLEX nope;`)},
	}

	if err := run(context.Background(), db, fsys, "m"); err == nil {
		t.Fatal("run = nil; want error")
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("schema_migrations rows = %d; want 0 after failure", n)
	}
}

func TestRun_MissingDir(t *testing.T) {
	db := openMemDB(t)
	if err := run(context.Background(), db, fstest.MapFS{}, "m"); err == nil {
		t.Fatal("run = nil; want error for missing dir")
	}
}
