package testutil

import (
	"context"
	"io"
	"time"

	"sedeges/ms_hojas_ruta/internal/core/backup"
)

// MockDumper is a mock implementation of backup.Dumper for testing.
type MockDumper struct {
	DumpFunc    func(ctx context.Context, w io.Writer) error
	RestoreFunc func(ctx context.Context, r io.Reader) error
}

// Dump calls the mock function if set, otherwise writes nothing.
func (m *MockDumper) Dump(ctx context.Context, w io.Writer) error {
	if m.DumpFunc != nil {
		return m.DumpFunc(ctx, w)
	}
	return nil
}

// Restore calls the mock function if set, otherwise drains r.
func (m *MockDumper) Restore(ctx context.Context, r io.Reader) error {
	if m.RestoreFunc != nil {
		return m.RestoreFunc(ctx, r)
	}
	_, err := io.Copy(io.Discard, r)
	return err
}

var _ backup.Dumper = (*MockDumper)(nil)

// MockStorage is a mock implementation of backup.Storage for testing.
type MockStorage struct {
	PutFunc        func(ctx context.Context, key string, body io.Reader, size int64) error
	PresignGetFunc func(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Put calls the mock function if set, otherwise drains body.
func (m *MockStorage) Put(ctx context.Context, key string, body io.Reader, size int64) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, key, body, size)
	}
	_, err := io.Copy(io.Discard, body)
	return err
}

// PresignGet calls the mock function if set, otherwise returns a fake URL.
func (m *MockStorage) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if m.PresignGetFunc != nil {
		return m.PresignGetFunc(ctx, key, ttl)
	}
	return "https://storage.example.com/" + key, nil
}

var _ backup.Storage = (*MockStorage)(nil)
