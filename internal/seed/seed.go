package seed

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Simplici0/sellercalc/internal/pricing"
	"github.com/Simplici0/sellercalc/internal/store"
)

const defaultProductName = "Contoh Produk"

// Config contains the values required by startup seed.
type Config struct {
	Enabled bool
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run executes the startup seed in an idempotent way: an example
// calculation is saved only while no calculation exists yet.
func Run(ctx context.Context, db *sqlx.DB, cfg Config) (Stats, error) {
	if !cfg.Enabled {
		return Stats{}, nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}
	if err := ensureExample(ctx, tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureExample(ctx context.Context, tx *sqlx.Tx, stats *Stats) error {
	calculations := store.New(tx)

	n, err := calculations.Count(ctx)
	if err != nil {
		return fmt.Errorf("check calculations existence: %w", err)
	}
	if n > 0 {
		return nil
	}

	in := pricing.DefaultInput()
	in.ProductName = defaultProductName

	if _, err := calculations.Create(ctx, in, pricing.Compute(in)); err != nil {
		return fmt.Errorf("insert example calculation: %w", err)
	}
	stats.Inserts++
	return nil
}
