package storage

import (
	"context"
	"io"
)

// Storage abstracts where uploaded spreadsheets and generated import reports
// live. Keys are relative paths like "uploads/batch-42.xlsx".
type Storage interface {
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Upload(ctx context.Context, key string, data io.Reader) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
