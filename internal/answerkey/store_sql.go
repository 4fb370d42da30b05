package answerkey

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLStore keeps entries in the answer_keys table. Placeholder style is $1,
// which both the sqlite and pgx drivers accept.
type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) Put(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO answer_keys (variant_number, answers, weights, created_at)
		 VALUES ($1,$2,$3,$4)
		 ON CONFLICT (variant_number) DO UPDATE SET answers=EXCLUDED.answers, weights=EXCLUDED.weights`,
		e.VariantNumber, e.Answers, e.Weights, time.Now().Unix())
	return err
}

func (s *SQLStore) Get(ctx context.Context, variantNumber int) (Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT variant_number, answers, weights FROM answer_keys WHERE variant_number=$1`,
		variantNumber)
	var e Entry
	if err := row.Scan(&e.VariantNumber, &e.Answers, &e.Weights); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, fmt.Errorf("variant %d: %w", variantNumber, ErrNotFound)
		}
		return Entry{}, err
	}
	return e, nil
}

func (s *SQLStore) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT variant_number, answers, weights FROM answer_keys ORDER BY variant_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.VariantNumber, &e.Answers, &e.Weights); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLStore) Replace(ctx context.Context, entries []Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM answer_keys`); err != nil {
		return err
	}
	now := time.Now().Unix()
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO answer_keys (variant_number, answers, weights, created_at) VALUES ($1,$2,$3,$4)`,
			e.VariantNumber, e.Answers, e.Weights, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}
