package storage

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestFSStoreRoundTrip(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	key, err := s.Put("keys/run-1.xlsx", strings.NewReader("workbook bytes"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	rc, err := s.Get(key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "workbook bytes" {
		t.Fatalf("got %q", b)
	}
}

func TestFSStoreMissing(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	if _, err := s.Get("keys/absent.xlsx"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestFSStoreRejectsEscapingKeys(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	for _, key := range []string{"", ".", "../outside", "/etc/passwd", "a/../../b"} {
		if _, err := s.Put(key, strings.NewReader("x")); err == nil {
			t.Fatalf("key %q accepted", key)
		}
	}
}
