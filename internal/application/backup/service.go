package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	corebackup "sedeges/ms_hojas_ruta/internal/core/backup"
	"sedeges/ms_hojas_ruta/internal/infrastructure/logger"
)

// ErrStorageDisabled is returned by Backup when no archive bucket is configured.
var ErrStorageDisabled = errors.New("backup storage not configured")

// Options tunes where archives are written.
type Options struct {
	Prefix string
	URLTTL time.Duration
}

// Service orchestrates database backup and restore.
type Service struct {
	dumper  corebackup.Dumper
	storage corebackup.Storage
	opts    Options
	now     func() time.Time
	log     *slog.Logger
}

// NewService creates a backup service. storage may be nil, in which case only
// streamed dumps are available.
func NewService(dumper corebackup.Dumper, storage corebackup.Storage, opts Options, log *slog.Logger) *Service {
	return &Service{dumper: dumper, storage: storage, opts: opts, now: time.Now, log: log}
}

// StorageEnabled reports whether archives can be kept in storage.
func (s *Service) StorageEnabled() bool {
	return s.storage != nil
}

// FileName returns the name a dump taken now gets.
func (s *Service) FileName() string {
	return "ms_hojas_ruta-" + s.now().UTC().Format("20060102T150405Z") + ".sql"
}

// Backup dumps the database into storage and returns a temporary download
// link to the archive.
func (s *Service) Backup(ctx context.Context) (corebackup.Archivo, error) {
	if s.storage == nil {
		return corebackup.Archivo{}, ErrStorageDisabled
	}

	var buf bytes.Buffer
	if err := s.dumper.Dump(ctx, &buf); err != nil {
		return corebackup.Archivo{}, fmt.Errorf("dump database: %w", err)
	}

	created := s.now().UTC()
	key := s.opts.Prefix + s.FileName()
	size := int64(buf.Len())
	if err := s.storage.Put(ctx, key, bytes.NewReader(buf.Bytes()), size); err != nil {
		return corebackup.Archivo{}, fmt.Errorf("store backup: %w", err)
	}

	url, err := s.storage.PresignGet(ctx, key, s.opts.URLTTL)
	if err != nil {
		return corebackup.Archivo{}, fmt.Errorf("presign backup: %w", err)
	}

	logger.FromContext(ctx, s.log).Info("backup stored", "key", key, "size", size)
	return corebackup.Archivo{
		Key:       key,
		Size:      size,
		URL:       url,
		ExpiresAt: created.Add(s.opts.URLTTL),
		CreatedAt: created,
	}, nil
}

// Stream writes a dump directly to w.
func (s *Service) Stream(ctx context.Context, w io.Writer) error {
	if err := s.dumper.Dump(ctx, w); err != nil {
		return fmt.Errorf("dump database: %w", err)
	}
	return nil
}

// Restore replaces the database contents with the dump read from r.
func (s *Service) Restore(ctx context.Context, r io.Reader) error {
	if err := s.dumper.Restore(ctx, r); err != nil {
		return fmt.Errorf("restore database: %w", err)
	}
	logger.FromContext(ctx, s.log).Warn("database restored from backup")
	return nil
}
