// Package store keeps saved calculations as immutable snapshots of the
// input and its computed result.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Simplici0/sellercalc/internal/pricing"
)

// ErrNotFound is returned when no calculation has the requested id.
var ErrNotFound = errors.New("calculation not found")

// Calculation is a saved (input, result) pair.
type Calculation struct {
	ID          int64          `json:"id"`
	ProductName string         `json:"productName"`
	CreatedAt   time.Time      `json:"createdAt"`
	Input       pricing.Input  `json:"input"`
	Result      pricing.Result `json:"result"`
}

type calculationRow struct {
	ID          int64  `db:"id"`
	ProductName string `db:"product_name"`
	InputJSON   string `db:"input_json"`
	ResultJSON  string `db:"result_json"`
	CreatedAt   string `db:"created_at"`
}

// Store persists calculations in SQLite.
type Store struct {
	db sqlx.ExtContext
}

// New returns a Store backed by db, which may be a *sqlx.DB or a *sqlx.Tx.
// The calculations table must exist.
func New(db sqlx.ExtContext) *Store {
	return &Store{db: db}
}

// Create saves a snapshot of in and its result.
func (s *Store) Create(ctx context.Context, in pricing.Input, result pricing.Result) (Calculation, error) {
	inputJSON, err := json.Marshal(in)
	if err != nil {
		return Calculation{}, fmt.Errorf("encode input snapshot: %w", err)
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return Calculation{}, fmt.Errorf("encode result snapshot: %w", err)
	}

	name := strings.TrimSpace(in.ProductName)
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO calculations (product_name, input_json, result_json)
		VALUES (?, ?, ?)
	`, name, string(inputJSON), string(resultJSON))
	if err != nil {
		return Calculation{}, fmt.Errorf("insert calculation: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return Calculation{}, fmt.Errorf("read calculation id: %w", err)
	}

	return s.Get(ctx, id)
}

// Get returns the calculation with the given id.
func (s *Store) Get(ctx context.Context, id int64) (Calculation, error) {
	var row calculationRow
	err := sqlx.GetContext(ctx, s.db, &row, `
		SELECT id, product_name, input_json, result_json, created_at
		FROM calculations
		WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Calculation{}, ErrNotFound
	}
	if err != nil {
		return Calculation{}, fmt.Errorf("query calculation %d: %w", id, err)
	}

	return row.decode()
}

// List returns calculations newest first. A non-empty query keeps only
// those whose product name contains it, ignoring case.
func (s *Store) List(ctx context.Context, query string) ([]Calculation, error) {
	query = strings.TrimSpace(query)
	pattern := "%" + escapeLike(query) + "%"

	var rows []calculationRow
	err := sqlx.SelectContext(ctx, s.db, &rows, `
		SELECT id, product_name, input_json, result_json, created_at
		FROM calculations
		WHERE (? = '' OR product_name LIKE ? ESCAPE '\')
		ORDER BY id DESC
	`, query, pattern)
	if err != nil {
		return nil, fmt.Errorf("query calculations: %w", err)
	}

	calculations := make([]Calculation, 0, len(rows))
	for _, row := range rows {
		c, err := row.decode()
		if err != nil {
			return nil, err
		}
		calculations = append(calculations, c)
	}

	return calculations, nil
}

// Delete removes the calculation with the given id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM calculations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete calculation %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete calculation %d: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// Count returns the number of saved calculations.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, s.db, &n, `SELECT COUNT(*) FROM calculations`); err != nil {
		return 0, fmt.Errorf("count calculations: %w", err)
	}
	return n, nil
}

func (r calculationRow) decode() (Calculation, error) {
	c := Calculation{
		ID:          r.ID,
		ProductName: r.ProductName,
		CreatedAt:   parseTimestamp(r.CreatedAt),
	}
	if err := json.Unmarshal([]byte(r.InputJSON), &c.Input); err != nil {
		return Calculation{}, fmt.Errorf("decode input snapshot %d: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(r.ResultJSON), &c.Result); err != nil {
		return Calculation{}, fmt.Errorf("decode result snapshot %d: %w", r.ID, err)
	}
	return c, nil
}

// parseTimestamp accepts both SQLite's CURRENT_TIMESTAMP text and the
// RFC 3339 form the driver produces for DATETIME columns.
func parseTimestamp(raw string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
