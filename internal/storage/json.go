package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"gomedic/internal/record"
)

const tempFilePrefix = "gomedic-tmp-"

// JSONStorage keeps the snapshot in one indented JSON file.
type JSONStorage struct {
	Path   string
	Logger *slog.Logger
}

func NewJSON(path string) *JSONStorage {
	return &JSONStorage{Path: path}
}

func (s *JSONStorage) Load(ctx context.Context) (record.Snapshot, error) {
	var snap record.Snapshot
	if err := ctx.Err(); err != nil {
		return snap, err
	}
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return snap, ErrNoData
	}
	if err != nil {
		return snap, fmt.Errorf("read %s: %w", s.Path, err)
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return record.Snapshot{}, fmt.Errorf("%w: %s: %w", ErrDataConversion, s.Path, err)
	}
	return snap, nil
}

func (s *JSONStorage) Save(ctx context.Context, snap record.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snap.Persons == nil {
		snap.Persons = []record.Person{}
	}
	if snap.Activities == nil {
		snap.Activities = []record.Activity{}
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	return writeFileAtomic(s.Path, append(data, '\n'), 0o644)
}

// writeFileAtomic writes to a temp file next to filename and renames it into place.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(filename), tempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("rename temp file to %s: %w", filename, err)
	}
	return nil
}

const watchDebounce = 50 * time.Millisecond

// Watch signals on the returned channel whenever the data file is written, created or
// replaced by someone else. Bursts are coalesced. The channel closes when ctx ends.
func (s *JSONStorage) Watch(ctx context.Context) (<-chan struct{}, error) {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	out := make(chan struct{}, 1)
	target := filepath.Clean(s.Path)

	go func() {
		defer close(out)
		defer watcher.Close()
		timer := time.NewTimer(watchDebounce)
		timer.Stop()
		defer timer.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
				select {
				case out <- struct{}{}:
				default:
				}
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target || strings.HasPrefix(filepath.Base(event.Name), tempFilePrefix) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				timer.Reset(watchDebounce)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				if s.Logger != nil {
					s.Logger.Error("fsnotify error", "error", err)
				}
			}
		}
	}()
	return out, nil
}
