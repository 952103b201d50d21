package sqlite

import (
	"context"
	"fmt"

	"log/slog"
)

// handle columns processed by the dedup pass, in order
var dedupColumns = []string{"telegram", "x"}

// dedupeUsers merges historical duplicate users sharing a handle value. Per
// column, the newest user in each group survives and the others are deleted
// after their submissions and events move to the survivor. The second
// column re-queries the table, so a user merged away in the telegram pass
// never reappears in the x pass.
func (s *Store) dedupeUsers(ctx context.Context) error {
	for _, col := range dedupColumns {
		groups, err := s.duplicateGroups(ctx, col)
		if err != nil {
			return err
		}

		for _, grp := range groups {
			survivor, losers := grp[0], grp[1:]
			for _, loser := range losers {
				if _, err := s.conn.Exec(ctx, `UPDATE submissions SET user_id = ? WHERE user_id = ?`, survivor, loser); err != nil {
					return fmt.Errorf("reassign submissions %s -> %s: %w", loser, survivor, err)
				}
				if _, err := s.conn.Exec(ctx, `UPDATE events SET user_id = ? WHERE user_id = ?`, survivor, loser); err != nil {
					return fmt.Errorf("reassign events %s -> %s: %w", loser, survivor, err)
				}
				if _, err := s.conn.Exec(ctx, `DELETE FROM users WHERE id = ?`, loser); err != nil {
					return fmt.Errorf("delete duplicate user %s: %w", loser, err)
				}
			}
			s.logger.Info("merged duplicate users",
				slog.String("column", col),
				slog.String("survivor", survivor),
				slog.Int("merged", len(losers)),
			)
		}
	}

	return nil
}

// duplicateGroups buckets user ids by a non-null handle column and returns
// only buckets with more than one member, each ordered newest first.
func (s *Store) duplicateGroups(ctx context.Context, col string) ([][]string, error) {
	q := fmt.Sprintf(`SELECT %s, id FROM users WHERE %s IS NOT NULL ORDER BY %s, created DESC, rowid DESC`, col, col, col)
	rows, err := s.conn.QueryRows(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query duplicate groups by %s: %w", col, err)
	}
	defer rows.Close()

	var (
		groups  [][]string
		current []string
		lastKey string
	)
	flush := func() {
		if len(current) > 1 {
			groups = append(groups, current)
		}
		current = nil
	}
	for rows.Next() {
		var key, id string
		if err := rows.Scan(&key, &id); err != nil {
			return nil, err
		}
		if key != lastKey {
			flush()
			lastKey = key
		}
		current = append(current, id)
	}
	flush()

	return groups, rows.Err()
}
