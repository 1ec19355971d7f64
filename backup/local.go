// Package backup writes the dataset snapshot to shareable export files
// and re-imports from files the user picked.
package backup

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"bikebuilders/models"
)

// ErrInvalidFormat is returned when an imported file does not parse as a
// snapshot document.
var ErrInvalidFormat = errors.New("invalid backup format")

// SnapshotStore is the slice of the repository the export service uses.
type SnapshotStore interface {
	CaptureSnapshot() (*models.Snapshot, error)
	RestoreSnapshot(snap *models.Snapshot) error
}

type Service struct {
	store     SnapshotStore
	exportDir string
	logger    *slog.Logger
}

func NewService(store SnapshotStore, exportDir string, logger *slog.Logger) *Service {
	return &Service{store: store, exportDir: exportDir, logger: logger}
}

// Export captures a snapshot and writes it to a uniquely named file in
// the export directory, returning the file's path for the host's share
// mechanism to hand out.
func (s *Service) Export() (string, error) {
	snap, err := s.store.CaptureSnapshot()
	if err != nil {
		return "", fmt.Errorf("capture snapshot: %w", err)
	}
	data, err := snap.Marshal()
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	if err := os.MkdirAll(s.exportDir, 0755); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("bikebuilders_backup_%s.json", time.Now().Format("2006-01-02T15-04-05"))
	path := filepath.Join(s.exportDir, filename)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}

	s.logger.Info("backup exported", "path", path)
	return path, nil
}

// Import replaces the dataset from a picked backup file. Content that
// does not parse as a snapshot fails with ErrInvalidFormat before any
// row is touched.
func (s *Service) Import(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	snap, err := models.ParseSnapshot(data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	if err := s.store.RestoreSnapshot(snap); err != nil {
		return fmt.Errorf("restore snapshot: %w", err)
	}

	s.logger.Info("backup imported",
		"customers", len(snap.Customers),
		"vehicles", len(snap.Vehicles),
	)
	return nil
}
