package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	output "inventory-service/internal/core/ports/output"
)

const (
	backupPrefix = "inventory-"
	backupSuffix = ".dump"
)

// BackupService writes and restores database archives.
type BackupService struct {
	dumper output.DatabaseDumper
	dir    string
	retain int
	now    func() time.Time
}

func NewBackupService(dumper output.DatabaseDumper, dir string, retain int) *BackupService {
	return &BackupService{dumper: dumper, dir: dir, retain: retain, now: time.Now}
}

// DumpToFile writes an archive to path. The dump goes to a temporary file
// beside path and replaces it only once complete, so a failed dump leaves
// any existing archive untouched.
func (s *BackupService) DumpToFile(ctx context.Context, path string) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create dump file: %w", err)
	}
	tmp := f.Name()

	if err := s.dumper.Dump(ctx, f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close dump file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("move dump into place: %w", err)
	}

	log.WithField("path", path).Info("database dump written")
	return nil
}

func (s *BackupService) RestoreFromFile(ctx context.Context, path string, opts output.RestoreOptions) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open dump file: %w", err)
	}
	defer f.Close()

	if err := s.dumper.Restore(ctx, f, opts); err != nil {
		return err
	}

	log.WithFields(log.Fields{"path": path, "clean": opts.Clean}).Info("database restored")
	return nil
}

// RunScheduled writes a timestamped archive into the backup directory and
// prunes all but the newest retain archives. retain 0 keeps everything.
func (s *BackupService) RunScheduled(ctx context.Context) (string, error) {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	name := backupPrefix + s.now().UTC().Format("20060102-150405") + backupSuffix
	path := filepath.Join(s.dir, name)
	if err := s.DumpToFile(ctx, path); err != nil {
		return "", err
	}

	if err := s.prune(); err != nil {
		log.WithError(err).Warn("prune old backups failed")
	}
	return path, nil
}

func (s *BackupService) prune() error {
	if s.retain <= 0 {
		return nil
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), backupPrefix) && strings.HasSuffix(e.Name(), backupSuffix) {
			names = append(names, e.Name())
		}
	}
	if len(names) <= s.retain {
		return nil
	}

	// Names embed a sortable timestamp.
	sort.Strings(names)
	for _, name := range names[:len(names)-s.retain] {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
			return err
		}
		log.WithField("file", name).Info("pruned old backup")
	}
	return nil
}
