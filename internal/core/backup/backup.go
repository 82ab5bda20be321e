package backup

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrInvalidDump is returned when a file is not a dump this service produced.
var ErrInvalidDump = errors.New("invalid backup file")

// Archivo describes a stored database dump.
type Archivo struct {
	Key       string    `json:"key"`
	Size      int64     `json:"size"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Dumper writes the application tables as replayable SQL and replays such a
// dump.
type Dumper interface {
	Dump(ctx context.Context, w io.Writer) error
	Restore(ctx context.Context, r io.Reader) error
}

// Storage keeps dump files and hands out temporary download links.
type Storage interface {
	Put(ctx context.Context, key string, body io.Reader, size int64) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}
