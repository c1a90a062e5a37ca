package utils

import (
	"errors"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SweepOrphanImages removes files from dir that no post references and
// that are older than grace. refs holds the public image paths stored on
// posts, e.g. "/images/1700000000000.png". The names of removed files are
// returned.
func SweepOrphanImages(dir, urlPrefix string, refs map[string]bool, grace time.Duration, now time.Time) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var removed []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if refs[path.Join(urlPrefix, e.Name())] {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		// recent uploads may belong to a form still being submitted
		if now.Sub(info.ModTime()) < grace {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil && !errors.Is(err, os.ErrNotExist) {
			Logger.Warn("removing orphan image failed", zap.String("file", e.Name()), zap.Error(err))
			continue
		}
		removed = append(removed, e.Name())
	}
	return removed, nil
}

// StartImageSweeper runs job on the given cron schedule. An empty schedule
// disables the sweeper and returns a nil scheduler.
func StartImageSweeper(schedule string, job func()) (*cron.Cron, error) {
	if schedule == "" {
		return nil, nil
	}
	c := cron.New()
	if _, err := c.AddFunc(schedule, job); err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
