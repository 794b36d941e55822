package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gomedic/internal/record"
	"gomedic/internal/repo"
)

// SQLiteStorage keeps the snapshot in the workspace database.
type SQLiteStorage struct {
	Repo repo.Repo
}

func (s SQLiteStorage) Load(ctx context.Context) (record.Snapshot, error) {
	if _, err := s.Repo.SavedAt(ctx); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return record.Snapshot{}, ErrNoData
		}
		return record.Snapshot{}, err
	}
	persons, err := s.Repo.ListPersons(ctx)
	if err != nil {
		return record.Snapshot{}, fmt.Errorf("%w: persons: %w", ErrDataConversion, err)
	}
	activities, err := s.Repo.ListActivities(ctx)
	if err != nil {
		return record.Snapshot{}, fmt.Errorf("%w: activities: %w", ErrDataConversion, err)
	}
	return record.Snapshot{Persons: persons, Activities: activities}, nil
}

func (s SQLiteStorage) Save(ctx context.Context, snap record.Snapshot) error {
	return s.Repo.ReplaceAll(ctx, snap)
}

// PollInterval is how often Watch checks for saves by other processes.
var PollInterval = time.Second

// Watch signals whenever the saved generation changes. The channel closes when ctx ends.
func (s SQLiteStorage) Watch(ctx context.Context) (<-chan struct{}, error) {
	last, err := s.Repo.Generation(ctx)
	if err != nil {
		return nil, err
	}
	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		ticker := time.NewTicker(PollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				gen, err := s.Repo.Generation(ctx)
				if err != nil || gen == last {
					continue
				}
				last = gen
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()
	return out, nil
}
