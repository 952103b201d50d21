package main

import (
	"context"
	"fmt"
	"os"

	"github.com/communityforge/sprint/internal/config"
	"github.com/communityforge/sprint/internal/db"
	sqlitestore "github.com/communityforge/sprint/internal/store/sqlite"
)

// Creates the local database, runs the duplicate-user merge and installs
// the unique handle indexes. Useful before first serving traffic or after
// importing legacy data.
func main() {
	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := db.New(ctx, cfg.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Open error: %v\n", err)
		os.Exit(1)
	}

	st := sqlitestore.New(conn, cfg.UploadDir, nil)
	if err := st.Init(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Init error: %v\n", err)
		os.Exit(1)
	}
	if err := st.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Close error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Database initialized.")
}
