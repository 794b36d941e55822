package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gomedic/internal/config"
	"gomedic/internal/model"
	"gomedic/internal/storage"
)

func TestSampleDataSatisfiesInvariants(t *testing.T) {
	persons, activities := SampleData()
	require.NoError(t, model.NewStore().Reset(persons, activities))
}

func TestLoadRecordFallbacks(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfg := config.Default()

	rt, err := Open(ctx, dir, cfg, nil)
	require.NoError(t, err)
	defer rt.Close()
	require.NoError(t, rt.LoadRecord(ctx))
	persons, activities := SampleData()
	assert.Equal(t, len(persons), rt.Engine.Store.Persons().Len())
	assert.Equal(t, len(activities), rt.Engine.Store.Activities().Len())

	path := cfg.DataPath(dir)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`{"activities":[{"id":"bad"}]}`), 0o644))
	require.NoError(t, rt.LoadRecord(ctx))
	assert.Equal(t, 0, rt.Engine.Store.Activities().Len())
}

func TestOpenSQLiteBackend(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Storage.Backend = config.BackendSQLite
	rt, err := Open(ctx, t.TempDir(), cfg, nil)
	require.NoError(t, err)
	defer rt.Close()
	_, ok := rt.Storage.(storage.SQLiteStorage)
	require.True(t, ok)

	require.NoError(t, rt.LoadRecord(ctx))
	_, err = rt.Engine.Execute(ctx, "delete t/activity A001")
	require.NoError(t, err)
	_, activities, err := rt.Repo.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, activities)
}
