// Package runlog records generation runs so the teacher can see what was
// produced and fetch the matching key workbook later.
package runlog

import (
	"context"
	"database/sql"
	"time"
)

// Run is one completed generation batch.
type Run struct {
	ID            string `json:"id"`
	NumVariants   int    `json:"num_variants"`
	NumQuestions  int    `json:"num_questions"`
	QuestionOrder string `json:"question_order"`
	OptionOrder   string `json:"option_order"`
	CreatedAt     int64  `json:"created_at"`
}

type Repo struct{ db *sql.DB }

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Append(ctx context.Context, run Run) error {
	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().Unix()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO generation_runs (id, num_variants, num_questions, question_order, option_order, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		run.ID, run.NumVariants, run.NumQuestions, run.QuestionOrder, run.OptionOrder, run.CreatedAt)
	return err
}

// Recent returns up to limit runs, newest first.
func (r *Repo) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, num_variants, num_questions, question_order, option_order, created_at
		 FROM generation_runs ORDER BY created_at DESC, id LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Run{}
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.NumVariants, &run.NumQuestions,
			&run.QuestionOrder, &run.OptionOrder, &run.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}
