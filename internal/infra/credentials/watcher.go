package credentials

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"appship/internal/domain"
)

const defaultWatchDebounce = 200 * time.Millisecond

// Watch reports credential source changes caused by edits to the credentials
// file, such as a login or logout from another terminal. It blocks until ctx
// is done. A credentials directory that does not exist yet is picked up once
// created; its parent must exist.
func (s *Store) Watch(ctx context.Context, onChange func(domain.CredentialSource)) error {
	return s.watch(ctx, defaultWatchDebounce, onChange)
}

func (s *Store) watch(ctx context.Context, debounce time.Duration, onChange func(domain.CredentialSource)) error {
	if s.path == "" {
		return errors.New("credentials path is required")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(s.path)
	watched, err := addCredentialsDir(watcher, dir)
	if err != nil {
		return err
	}

	last := s.Source()
	var timer *time.Timer
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(debounce)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("credentials watcher error", zap.Error(err))
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name := filepath.Clean(event.Name)
			if watched != dir {
				if name != dir || !event.Has(fsnotify.Create) {
					continue
				}
				if err := watcher.Add(dir); err != nil {
					s.logger.Warn("watch credentials directory failed", zap.String("path", dir), zap.Error(err))
					continue
				}
				_ = watcher.Remove(watched)
				watched = dir
				s.logger.Debug("credentials directory created", zap.String("path", dir))
				// The file may have been written before the new watch was in place.
				schedule()
				continue
			}
			if name != filepath.Clean(s.path) {
				continue
			}
			schedule()
		case <-timerChan(timer):
			timer = nil
			current := s.Source()
			if current == last {
				continue
			}
			s.logger.Debug("credential source changed",
				zap.String("from", string(last)),
				zap.String("to", string(current)),
			)
			last = current
			if onChange != nil {
				onChange(current)
			}
		}
	}
}

// addCredentialsDir watches dir, or its parent while dir does not exist yet.
// It returns the directory actually watched.
func addCredentialsDir(watcher *fsnotify.Watcher, dir string) (string, error) {
	target := dir
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		target = filepath.Dir(dir)
	}
	if err := watcher.Add(target); err != nil {
		return "", fmt.Errorf("watch %s: %w", target, err)
	}
	return target, nil
}

func timerChan(timer *time.Timer) <-chan time.Time {
	if timer == nil {
		return nil
	}
	return timer.C
}
