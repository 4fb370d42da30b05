// Package testgen ties the pipeline together: resolve the bank, build
// variants, persist the keys and later grade submissions against them.
package testgen

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/HalatsynZakhar/TeacherTest/internal/answerkey"
	"github.com/HalatsynZakhar/TeacherTest/internal/bank"
	"github.com/HalatsynZakhar/TeacherTest/internal/runlog"
	"github.com/HalatsynZakhar/TeacherTest/internal/scoring"
	"github.com/HalatsynZakhar/TeacherTest/internal/storage"
	"github.com/HalatsynZakhar/TeacherTest/internal/variant"
)

// RunResult is what one generation call hands back: the printable variants
// and the key entries that were persisted for them.
type RunResult struct {
	RunID    string            `json:"run_id"`
	Variants []variant.Variant `json:"variants"`
	Entries  []answerkey.Entry `json:"entries"`
}

type Service struct {
	keys    answerkey.Store
	gen     *variant.Generator
	engine  *scoring.Engine
	runs    *runlog.Repo
	exports storage.BlobStore
	log     *zap.Logger
}

type Option func(*Service)

// WithRunLog records each generation batch in the run log.
func WithRunLog(r *runlog.Repo) Option { return func(s *Service) { s.runs = r } }

// WithExports keeps a copy of each run's key workbook in the blob store.
func WithExports(b storage.BlobStore) Option { return func(s *Service) { s.exports = b } }

func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.log = l } }

func New(keys answerkey.Store, gen *variant.Generator, engine *scoring.Engine, opts ...Option) *Service {
	s := &Service{keys: keys, gen: gen, engine: engine, log: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// WorkbookKey is where a run's exported key workbook lives in the blob store.
func WorkbookKey(runID string) string { return "keys/" + runID + ".xlsx" }

// Generate builds a batch of variants from the bank, replaces the stored
// key set with the batch's keys and logs the run. The key workbook export
// is best effort; the run succeeds without it.
func (s *Service) Generate(ctx context.Context, questions []bank.Question, p variant.Params) (RunResult, error) {
	variants, err := s.gen.Generate(questions, p)
	if err != nil {
		return RunResult{}, err
	}

	entries := make([]answerkey.Entry, len(variants))
	for i, v := range variants {
		entries[i] = answerkey.Encode(v)
	}
	if err := s.keys.Replace(ctx, entries); err != nil {
		return RunResult{}, fmt.Errorf("persist keys: %w", err)
	}

	runID := uuid.NewString()
	p = p.Normalized()
	if s.runs != nil {
		run := runlog.Run{
			ID:            runID,
			NumVariants:   len(variants),
			NumQuestions:  len(variants[0].Questions),
			QuestionOrder: p.QuestionOrder,
			OptionOrder:   p.OptionOrder,
		}
		if err := s.runs.Append(ctx, run); err != nil {
			return RunResult{}, fmt.Errorf("log run: %w", err)
		}
	}
	if s.exports != nil {
		var buf bytes.Buffer
		if err := answerkey.WriteWorkbook(&buf, entries); err != nil {
			s.log.Warn("render key workbook", zap.String("run_id", runID), zap.Error(err))
		} else if _, err := s.exports.Put(WorkbookKey(runID), &buf); err != nil {
			s.log.Warn("store key workbook", zap.String("run_id", runID), zap.Error(err))
		}
	}

	s.log.Info("generated variants",
		zap.String("run_id", runID),
		zap.Int("variants", len(variants)),
		zap.Int("questions", len(variants[0].Questions)),
		zap.String("question_order", p.QuestionOrder),
		zap.String("option_order", p.OptionOrder))
	return RunResult{RunID: runID, Variants: variants, Entries: entries}, nil
}

// Check grades one submission against the stored key for its variant.
func (s *Service) Check(ctx context.Context, variantNumber int, answers []string) (scoring.CheckResult, error) {
	e, err := s.keys.Get(ctx, variantNumber)
	if err != nil {
		return scoring.CheckResult{}, err
	}
	key, err := answerkey.Decode(e)
	if err != nil {
		return scoring.CheckResult{}, err
	}
	res, err := s.engine.Check(key, answers)
	if err != nil {
		return scoring.CheckResult{}, err
	}
	s.log.Info("checked submission",
		zap.Int("variant", variantNumber),
		zap.Int("correct", res.CorrectCount),
		zap.Float64("score", res.WeightedScore))
	return res, nil
}

// Keys lists the stored entries, ascending by variant number.
func (s *Service) Keys(ctx context.Context) ([]answerkey.Entry, error) {
	return s.keys.List(ctx)
}

// Key returns one stored entry.
func (s *Service) Key(ctx context.Context, variantNumber int) (answerkey.Entry, error) {
	return s.keys.Get(ctx, variantNumber)
}

// ExportKeys writes the stored key set as an xlsx workbook.
func (s *Service) ExportKeys(ctx context.Context, w io.Writer) error {
	entries, err := s.keys.List(ctx)
	if err != nil {
		return err
	}
	return answerkey.WriteWorkbook(w, entries)
}

// ImportKeys replaces the stored key set with the workbook's entries and
// reports how many were imported. A malformed workbook changes nothing.
func (s *Service) ImportKeys(ctx context.Context, r io.Reader) (int, error) {
	entries, err := answerkey.ReadWorkbook(r)
	if err != nil {
		return 0, err
	}
	if err := s.keys.Replace(ctx, entries); err != nil {
		return 0, err
	}
	s.log.Info("imported keys", zap.Int("entries", len(entries)))
	return len(entries), nil
}

// Runs lists recent generation runs, newest first.
func (s *Service) Runs(ctx context.Context, limit int) ([]runlog.Run, error) {
	if s.runs == nil {
		return []runlog.Run{}, nil
	}
	return s.runs.Recent(ctx, limit)
}

// Workbook opens the stored key workbook for a past run.
func (s *Service) Workbook(runID string) (io.ReadCloser, error) {
	if s.exports == nil {
		return nil, storage.ErrNotFound
	}
	return s.exports.Get(WorkbookKey(runID))
}
