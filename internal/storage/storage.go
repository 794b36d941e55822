// Package storage loads and saves record snapshots.
package storage

import (
	"context"
	"errors"

	"gomedic/internal/record"
)

var (
	// ErrNoData means there is nothing saved yet; callers start from sample data.
	ErrNoData = errors.New("no saved data")
	// ErrDataConversion means saved data exists but cannot be read back.
	ErrDataConversion = record.ErrDataConversion
)

type Storage interface {
	Load(ctx context.Context) (record.Snapshot, error)
	Save(ctx context.Context, snap record.Snapshot) error
}

// Watcher is implemented by storages that can report saves made by other processes.
type Watcher interface {
	Watch(ctx context.Context) (<-chan struct{}, error)
}
