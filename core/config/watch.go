package config

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// debounce collapses the burst of events editors emit for one save.
const debounce = 500 * time.Millisecond

// Watch calls onChange with a freshly loaded config whenever the .env file or
// the config file in path changes. A config that fails to load or validate is
// logged and skipped. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, log *zap.Logger, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory: editors and secret mounts replace files rather
	// than write to them.
	if err := watcher.Add(path); err != nil {
		return err
	}

	var (
		timer   *time.Timer
		trigger <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isConfigFile(event.Name) || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(debounce)
			trigger = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("Config watcher error", zap.Error(err))

		case <-trigger:
			trigger = nil
			cfg, err := LoadConfig(path)
			if err == nil {
				err = cfg.Validate()
			}
			if err != nil {
				log.Error("Ignoring config change", zap.Error(err))
				continue
			}
			log.Info("Configuration changed, reloading")
			onChange(cfg)
		}
	}
}

func isConfigFile(name string) bool {
	base := filepath.Base(name)
	if base == ".env" {
		return true
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) == FileName
}
