package db

import (
	"context"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := New(context.Background(), "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func tableExists(t *testing.T, d *DB, name string) bool {
	t.Helper()
	var n int
	err := d.QueryRow(context.Background(), `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n)
	if err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	return n == 1
}

func TestMigrateCreatesSchema(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	if err := Migrate(ctx, d); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	for _, table := range []string{"users", "submissions", "events", "schema_migrations"} {
		if !tableExists(t, d, table) {
			t.Fatalf("expected table %s after migrate", table)
		}
	}
}

func TestMigrateIdempotent(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	if err := Migrate(ctx, d); err != nil {
		t.Fatalf("first migrate: %v", err)
	}
	var before int
	if err := d.QueryRow(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&before); err != nil {
		t.Fatalf("count versions: %v", err)
	}
	if before == 0 {
		t.Fatalf("expected at least one recorded migration")
	}

	if err := Migrate(ctx, d); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	var after int
	if err := d.QueryRow(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&after); err != nil {
		t.Fatalf("count versions: %v", err)
	}
	if before != after {
		t.Fatalf("rerun must not re-apply migrations: before=%d after=%d", before, after)
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	if err := Migrate(ctx, d); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if _, err := d.Exec(ctx, `INSERT INTO submissions (id, user_id, quest_idx, created) VALUES ('s1', 'no-such-user', 1, 1)`); err == nil {
		t.Fatalf("expected foreign key violation")
	}
}
