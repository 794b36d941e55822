package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gomedic/internal/db"
	"gomedic/internal/domain"
	"gomedic/internal/migrate"
	"gomedic/internal/model"
	"gomedic/internal/record"
	"gomedic/internal/repo"
)

func filledStore(t *testing.T) *model.Store {
	t.Helper()
	s := model.NewStore()
	a1, err := domain.NewActivity(domain.MustParseID("A001"),
		domain.MustParseTime("15/10/2026 09:00"), domain.MustParseTime("15/10/2026 10:00"), "Ward round", "L3")
	require.NoError(t, err)
	a2, err := domain.NewActivity(domain.MustParseID("A002"),
		domain.MustParseTime("14/10/2026 09:00"), domain.MustParseTime("14/10/2026 10:00"), "Clinic", "")
	require.NoError(t, err)
	d, err := domain.NewDoctor(domain.MustParseID("D001"), "Amy Tan", "91234567", "Cardiology")
	require.NoError(t, err)
	p, err := domain.NewPatient(domain.MustParseID("P001"), "Bob", "8123", 40, "M", "", []domain.Condition{"asthma"})
	require.NoError(t, err)
	require.NoError(t, s.Reset([]domain.Person{d, p}, []domain.Activity{a1, a2}))
	return s
}

func assertRoundTrip(t *testing.T, st Storage) {
	t.Helper()
	ctx := context.Background()
	_, err := st.Load(ctx)
	require.ErrorIs(t, err, ErrNoData)

	src := filledStore(t)
	require.NoError(t, st.Save(ctx, record.Capture(src)))
	snap, err := st.Load(ctx)
	require.NoError(t, err)

	dst := model.NewStore()
	require.NoError(t, snap.Load(dst))
	require.Equal(t, src.Activities().Len(), dst.Activities().Len())
	for i, a := range src.Activities().All() {
		assert.True(t, a.Equal(dst.Activities().At(i)))
	}
	for i, p := range src.Persons().All() {
		assert.True(t, p.Equal(dst.Persons().At(i)))
	}

	require.NoError(t, st.Save(ctx, record.Snapshot{}))
	snap, err = st.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Activities)
}

func TestJSONRoundTrip(t *testing.T) {
	assertRoundTrip(t, NewJSON(filepath.Join(t.TempDir(), "data", "gomedic.json")))
}

func TestSQLiteRoundTrip(t *testing.T) {
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, migrate.Migrate(conn))
	assertRoundTrip(t, SQLiteStorage{Repo: repo.Repo{DB: conn}})
}

func TestJSONCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gomedic.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err := NewJSON(path).Load(context.Background())
	assert.ErrorIs(t, err, ErrDataConversion)
}

func TestJSONSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	st := NewJSON(filepath.Join(dir, "gomedic.json"))
	require.NoError(t, st.Save(context.Background(), record.Capture(filledStore(t))))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "gomedic.json", entries[0].Name())
}

func TestJSONWatch(t *testing.T) {
	dir := t.TempDir()
	st := NewJSON(filepath.Join(dir, "gomedic.json"))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes, err := st.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, st.Save(ctx, record.Capture(filledStore(t))))
	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("no change signalled")
	}

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-changes:
			return !ok
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
}

func TestSQLiteWatch(t *testing.T) {
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, migrate.Migrate(conn))
	PollInterval = 10 * time.Millisecond
	t.Cleanup(func() { PollInterval = time.Second })

	st := SQLiteStorage{Repo: repo.Repo{DB: conn}}
	var _ Watcher = st
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes, err := st.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, st.Save(ctx, record.Capture(filledStore(t))))
	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("no change signalled")
	}
}
