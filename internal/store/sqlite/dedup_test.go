package sqlite_test

import (
	"context"
	"testing"

	dbpkg "github.com/communityforge/sprint/internal/db"
	sqlite "github.com/communityforge/sprint/internal/store/sqlite"
)

// seedUser inserts a user row directly, bypassing the store, so tests can
// build the duplicate-handle state a pre-dedup database could contain.
func seedUser(t *testing.T, d *dbpkg.DB, id, telegram, x string, created int64) {
	t.Helper()
	var tg, xv any
	if telegram != "" {
		tg = telegram
	}
	if x != "" {
		xv = x
	}
	_, err := d.Exec(context.Background(),
		`INSERT INTO users (id, name, institution, telegram, x, created) VALUES (?, ?, '', ?, ?, ?)`,
		id, "user-"+id, tg, xv, created)
	if err != nil {
		t.Fatalf("seed user %s: %v", id, err)
	}
}

func seedSubmission(t *testing.T, d *dbpkg.DB, id, userID string, created int64) {
	t.Helper()
	_, err := d.Exec(context.Background(),
		`INSERT INTO submissions (id, user_id, quest_idx, title, track, text, status, created) VALUES (?, ?, 1, 'Proof', 'Dev', 'done', 'pending', ?)`,
		id, userID, created)
	if err != nil {
		t.Fatalf("seed submission %s: %v", id, err)
	}
}

func seedEvent(t *testing.T, d *dbpkg.DB, id, userID string, created int64) {
	t.Helper()
	_, err := d.Exec(context.Background(),
		`INSERT INTO events (id, user_id, type, created) VALUES (?, ?, 'profile_upserted', ?)`,
		id, userID, created)
	if err != nil {
		t.Fatalf("seed event %s: %v", id, err)
	}
}

func countRows(t *testing.T, d *dbpkg.DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := d.QueryRow(context.Background(), query, args...).Scan(&n); err != nil {
		t.Fatalf("count query %q: %v", query, err)
	}
	return n
}

func TestDedupMergesDuplicateTelegram(t *testing.T) {
	ctx := context.Background()
	d := openDB(t)
	defer d.Close()
	if err := dbpkg.Migrate(ctx, d); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	seedUser(t, d, "old", "@dup", "", 100)
	seedUser(t, d, "new", "@dup", "", 200)
	seedSubmission(t, d, "sub-old", "old", 110)
	seedSubmission(t, d, "sub-new", "new", 210)
	seedEvent(t, d, "ev-old", "old", 105)

	st := sqlite.New(d, t.TempDir(), nil)
	if err := st.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	if n := countRows(t, d, `SELECT COUNT(*) FROM users WHERE telegram = '@dup'`); n != 1 {
		t.Fatalf("expected one surviving user, got %d", n)
	}
	// newest row wins the merge
	if n := countRows(t, d, `SELECT COUNT(*) FROM users WHERE id = 'new'`); n != 1 {
		t.Fatalf("expected the newest row to survive")
	}
	if n := countRows(t, d, `SELECT COUNT(*) FROM submissions WHERE user_id = 'new'`); n != 2 {
		t.Fatalf("expected both submissions on survivor, got %d", n)
	}
	if n := countRows(t, d, `SELECT COUNT(*) FROM events WHERE user_id = 'new'`); n != 1 {
		t.Fatalf("expected event reassigned to survivor, got %d", n)
	}
	if n := countRows(t, d, `SELECT COUNT(*) FROM submissions`); n != 2 {
		t.Fatalf("merge must not drop submissions, have %d", n)
	}
}

func TestDedupDuplicateXHandle(t *testing.T) {
	ctx := context.Background()
	d := openDB(t)
	defer d.Close()
	if err := dbpkg.Migrate(ctx, d); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	seedUser(t, d, "x-old", "", "@same", 50)
	seedUser(t, d, "x-new", "", "@same", 60)
	seedSubmission(t, d, "sub-x", "x-old", 55)

	st := sqlite.New(d, t.TempDir(), nil)
	if err := st.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	if n := countRows(t, d, `SELECT COUNT(*) FROM users`); n != 1 {
		t.Fatalf("expected one user after merge, got %d", n)
	}
	if n := countRows(t, d, `SELECT COUNT(*) FROM submissions WHERE user_id = 'x-new'`); n != 1 {
		t.Fatalf("expected submission reassigned to survivor, got %d", n)
	}
}

// A row can lose a telegram merge while also sharing an x handle with a third
// row. The x pass runs against the post-merge table, so the already-deleted
// loser must not produce a second merge.
func TestDedupAcrossBothColumns(t *testing.T) {
	ctx := context.Background()
	d := openDB(t)
	defer d.Close()
	if err := dbpkg.Migrate(ctx, d); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	seedUser(t, d, "both", "@t", "@x", 100)
	seedUser(t, d, "tg-winner", "@t", "", 300)
	seedUser(t, d, "x-only", "", "@x", 200)
	seedSubmission(t, d, "sub-both", "both", 120)

	st := sqlite.New(d, t.TempDir(), nil)
	if err := st.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	if n := countRows(t, d, `SELECT COUNT(*) FROM users`); n != 2 {
		t.Fatalf("expected two users after merge, got %d", n)
	}
	if n := countRows(t, d, `SELECT COUNT(*) FROM users WHERE id IN ('tg-winner', 'x-only')`); n != 2 {
		t.Fatalf("wrong survivors after merge")
	}
	if n := countRows(t, d, `SELECT COUNT(*) FROM submissions WHERE user_id = 'tg-winner'`); n != 1 {
		t.Fatalf("expected submission to follow the telegram merge, got %d", n)
	}
}

func TestDedupIdempotent(t *testing.T) {
	ctx := context.Background()
	d := openDB(t)
	defer d.Close()
	if err := dbpkg.Migrate(ctx, d); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	seedUser(t, d, "a", "@h", "", 10)
	seedUser(t, d, "b", "@h", "", 20)

	st := sqlite.New(d, t.TempDir(), nil)
	if err := st.Init(ctx); err != nil {
		t.Fatalf("first init: %v", err)
	}
	if err := st.Init(ctx); err != nil {
		t.Fatalf("second init: %v", err)
	}

	if n := countRows(t, d, `SELECT COUNT(*) FROM users`); n != 1 {
		t.Fatalf("expected one user after repeated init, got %d", n)
	}
}
