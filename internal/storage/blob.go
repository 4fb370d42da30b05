// Package storage keeps generated artifacts, one blob per key. The only
// producer today is the key-workbook export; a run's workbook lives under
// "keys/<run-id>.xlsx".
package storage

import (
	"errors"
	"io"
)

var ErrNotFound = errors.New("blob not found")

type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)       // ErrNotFound when absent
}
