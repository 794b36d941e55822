package engine_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gomedic/internal/command"
	"gomedic/internal/db"
	"gomedic/internal/domain"
	"gomedic/internal/engine"
	"gomedic/internal/events"
	"gomedic/internal/metrics"
	"gomedic/internal/migrate"
	"gomedic/internal/model"
	"gomedic/internal/parser"
	"gomedic/internal/record"
	"gomedic/internal/repo"
	"gomedic/internal/storage"
)

type testEnv struct {
	Engine  engine.Engine
	Storage *storage.JSONStorage
	Repo    repo.Repo
	Ctx     context.Context
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	conn, err := db.Open(db.Config{Workspace: dir})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, migrate.Migrate(conn))

	st := storage.NewJSON(filepath.Join(dir, "data", "gomedic.json"))
	eng := engine.New(model.NewStore(), st)
	eng.Events = events.Writer{DB: conn}
	eng.Metrics = metrics.New()
	eng.Now = func() time.Time { return time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC) }
	return testEnv{Engine: eng, Storage: st, Repo: repo.Repo{DB: conn}, Ctx: context.Background()}
}

type failingStorage struct{}

var errDummyIO = errors.New("dummy exception")

func (failingStorage) Load(context.Context) (record.Snapshot, error) { return record.Snapshot{}, storage.ErrNoData }
func (failingStorage) Save(context.Context, record.Snapshot) error   { return errDummyIO }

func TestExecuteUnknownCommand(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.Engine.Execute(env.Ctx, "uicfhmowqewca")
	var pe *parser.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, parser.MessageUnknownCommand, pe.Msg)

	evts, err := env.Repo.LatestEvents(env.Ctx, 5, repo.EventFilters{})
	require.NoError(t, err)
	require.Len(t, evts, 1)
	assert.Equal(t, events.OutcomeParseError, evts[0].Outcome)
}

func TestExecuteInvalidPersonIndex(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.Engine.Execute(env.Ctx, "delete 9")
	var ce *command.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, command.MessageInvalidPersonIndex, ce.Msg)

	// nothing changed, nothing saved
	_, err = env.Storage.Load(env.Ctx)
	assert.ErrorIs(t, err, storage.ErrNoData)
}

func TestExecuteListSucceeds(t *testing.T) {
	env := newTestEnv(t)
	res, err := env.Engine.Execute(env.Ctx, "list")
	require.NoError(t, err)
	assert.Equal(t, command.MessageListAll, res.Feedback)
	assert.Equal(t, 0, res.Persons.Len())
}

func TestExecuteSavesOnMutation(t *testing.T) {
	env := newTestEnv(t)
	res, err := env.Engine.Execute(env.Ctx, "add t/activity s/15/10/2026 09:00 e/15/10/2026 10:00 ti/Ward round")
	require.NoError(t, err)
	assert.Contains(t, res.Feedback, "New activity added: A001")

	snap, err := env.Storage.Load(env.Ctx)
	require.NoError(t, err)
	require.Len(t, snap.Activities, 1)
	assert.Equal(t, "Ward round", snap.Activities[0].Title)

	_, err = env.Engine.Execute(env.Ctx, "add t/activity s/15/10/2026 10:00 e/15/10/2026 11:00 ti/Touching")
	var ce *command.Error
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Msg, "This activity conflicts with an existing activity: A001")

	res, err = env.Engine.Execute(env.Ctx, "delete t/activity A001")
	require.NoError(t, err)
	assert.Contains(t, res.Feedback, "Deleted Activity: A001")
	snap, err = env.Storage.Load(env.Ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Activities)
}

func TestExecuteSaveFailureKeepsMutation(t *testing.T) {
	env := newTestEnv(t)
	env.Engine.Storage = failingStorage{}

	_, err := env.Engine.Execute(env.Ctx, "add t/doctor n/Amy Tan p/91234567 de/Cardiology")
	var ce *command.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, engine.FileOpsErrorMessage+errDummyIO.Error(), ce.Msg)
	assert.ErrorIs(t, err, errDummyIO)

	assert.Equal(t, 1, env.Engine.FilteredPersons().Len())
	assert.True(t, env.Engine.Store.HasPerson(domain.MustParseID("D001")))

	evts, err := env.Repo.LatestEvents(env.Ctx, 5, repo.EventFilters{Outcome: events.OutcomeSaveFailure})
	require.NoError(t, err)
	assert.Len(t, evts, 1)
}

func TestFilteredViewsAreReadOnly(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.Engine.Execute(env.Ctx, "add t/activity s/15/10/2026 09:00 e/15/10/2026 10:00 ti/Round")
	require.NoError(t, err)

	items := env.Engine.FilteredActivities().Items()
	items[0] = domain.Activity{}
	assert.Equal(t, "A001", env.Engine.FilteredActivities().At(0).ID().String())
}

func TestLoadFallsBackOnMissingData(t *testing.T) {
	env := newTestEnv(t)
	require.ErrorIs(t, env.Engine.Load(env.Ctx), storage.ErrNoData)

	_, err := env.Engine.Execute(env.Ctx, "add t/patient n/Bob p/8123 a/40 g/M")
	require.NoError(t, err)

	fresh := engine.New(model.NewStore(), env.Storage)
	require.NoError(t, fresh.Load(env.Ctx))
	assert.True(t, fresh.Store.HasPerson(domain.MustParseID("P001")))
}
