package answerkey

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/HalatsynZakhar/TeacherTest/internal/db"
)

func openTestStore(t *testing.T) *SQLStore {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "keys.db")
	h, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return NewSQLStore(h, "sqlite")
}

func TestSQLStorePutGet(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	e := Entry{VariantNumber: 1, Answers: "A, B", Weights: "1, 2"}
	if err := s.Put(ctx, e); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != e {
		t.Fatalf("Get = %+v, want %+v", got, e)
	}

	// Same variant again overwrites.
	e.Answers = "B, A"
	if err := s.Put(ctx, e); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, err = s.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get after overwrite: %v", err)
	}
	if got.Answers != "B, A" {
		t.Fatalf("answers = %q, want overwrite", got.Answers)
	}

	if _, err := s.Get(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing variant: err = %v, want ErrNotFound", err)
	}
}

func TestSQLStoreReplaceAndList(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	for i := 1; i <= 3; i++ {
		if err := s.Put(ctx, Entry{VariantNumber: i, Answers: "A", Weights: "1"}); err != nil {
			t.Fatalf("Put %d: %v", i, err)
		}
	}
	if err := s.Replace(ctx, []Entry{
		{VariantNumber: 5, Answers: "B", Weights: "2"},
		{VariantNumber: 4, Answers: "C", Weights: "3"},
	}); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	got, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("List = %d entries, want 2 (stale keys kept?)", len(got))
	}
	if got[0].VariantNumber != 4 || got[1].VariantNumber != 5 {
		t.Fatalf("List order = %+v, want ascending", got)
	}
	if _, err := s.Get(ctx, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("variant 1 should be gone, err = %v", err)
	}
}

func TestMemoryStoreMatchesSQLBehavior(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	if err := m.Put(ctx, Entry{VariantNumber: 2, Answers: "A", Weights: "1"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := m.Put(ctx, Entry{VariantNumber: 1, Answers: "B", Weights: "1"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := m.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].VariantNumber != 1 {
		t.Fatalf("List = %+v, want ascending pair", got)
	}
	if _, err := m.Get(ctx, 3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing variant: err = %v, want ErrNotFound", err)
	}
	if err := m.Replace(ctx, nil); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if got, _ := m.List(ctx); len(got) != 0 {
		t.Fatalf("List after empty Replace = %+v, want none", got)
	}
}
