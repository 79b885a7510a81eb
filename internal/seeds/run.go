package seeds

import (
	"context"
	"database/sql"
	"fmt"
)

type RunOptions struct {
	// AdvisoryKey serialises concurrent seeders when non-zero.
	AdvisoryKey int64
	// DryRun rolls back after the post-apply counts.
	DryRun bool
}

// Report holds table counts around Apply and the rows it inserted.
type Report struct {
	Before    Counts
	After     Counts
	Inserted  Counts
	Committed bool
}

// Run applies f inside one read-committed transaction.
func (s *Seeder) Run(ctx context.Context, conn *sql.DB, f Fixture, opts RunOptions) (Report, error) {
	var rep Report

	tx, err := conn.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return rep, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if opts.AdvisoryKey != 0 {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, opts.AdvisoryKey); err != nil {
			return rep, fmt.Errorf("advisory lock: %w", err)
		}
	}

	if rep.Before, err = s.CountAll(ctx, tx); err != nil {
		return rep, fmt.Errorf("pre-count: %w", err)
	}
	if rep.Inserted, err = s.Apply(ctx, tx, f); err != nil {
		return rep, fmt.Errorf("seed: %w", err)
	}
	if rep.After, err = s.CountAll(ctx, tx); err != nil {
		return rep, fmt.Errorf("post-count: %w", err)
	}

	if opts.DryRun {
		if err := tx.Rollback(); err != nil {
			return rep, fmt.Errorf("rollback: %w", err)
		}
		return rep, nil
	}
	if err := tx.Commit(); err != nil {
		return rep, fmt.Errorf("commit: %w", err)
	}
	rep.Committed = true
	return rep, nil
}
