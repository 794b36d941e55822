package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gomedic/internal/db"
	"gomedic/internal/domain"
	"gomedic/internal/engine"
	"gomedic/internal/events"
	"gomedic/internal/metrics"
	"gomedic/internal/migrate"
	"gomedic/internal/model"
	"gomedic/internal/repo"
	"gomedic/internal/storage"
	gomedicsdk "gomedic/sdk/go"
)

type testServer struct {
	URL    string
	Engine engine.Engine
	client *gomedicsdk.Client
	close  func()
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	workspace := t.TempDir()
	conn, err := db.Open(db.Config{Workspace: workspace})
	require.NoError(t, err)
	require.NoError(t, migrate.Migrate(conn))

	store := model.NewStore()
	seed := []domain.Activity{
		mustActivity(t, "A001", "15/10/2026 13:00", "15/10/2026 14:00", "Department meeting"),
		mustActivity(t, "A002", "15/10/2026 09:00", "15/10/2026 10:00", "Ward round"),
	}
	doc, err := domain.NewDoctor(domain.MustParseID("D001"), "Amy Tan", "91234567", "Cardiology")
	require.NoError(t, err)
	pat, err := domain.NewPatient(domain.MustParseID("P001"), "Bob Lee", "81234567", 40, domain.GenderMale, "O+", nil)
	require.NoError(t, err)
	require.NoError(t, store.Reset([]domain.Person{pat, doc}, seed))

	rec := metrics.New()
	eng := engine.New(store, storage.NewJSON(filepath.Join(workspace, "data", "gomedic.json")))
	eng.Events = events.Writer{DB: conn}
	eng.Metrics = rec

	feed := NewFeed(store.Projection())
	ctx, cancel := context.WithCancel(context.Background())
	feed.Attach(ctx, store)

	handler, err := New(Config{Feed: feed, Repo: repo.Repo{DB: conn}, Metrics: rec, BasePath: "/v0"})
	require.NoError(t, err)
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)
	srv := &http.Server{Handler: handler}
	go srv.Serve(ln)

	ts := &testServer{
		URL:    "http://" + ln.Addr().String(),
		Engine: eng,
		close: func() {
			cancel()
			srv.Shutdown(context.Background())
			ln.Close()
			conn.Close()
		},
	}
	ts.client = gomedicsdk.New(ts.URL)
	t.Cleanup(ts.close)
	return ts
}

func mustActivity(t *testing.T, id, start, end, title string) domain.Activity {
	t.Helper()
	a, err := domain.NewActivity(domain.MustParseID(id), domain.MustParseTime(start), domain.MustParseTime(end), domain.Title(title), "")
	require.NoError(t, err)
	return a
}

func get(t *testing.T, url string) (int, []byte) {
	t.Helper()
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, data
}

func TestHealthAndStatus(t *testing.T) {
	srv := newTestServer(t)
	code, body := get(t, srv.URL+"/v0/health")
	require.Equal(t, http.StatusOK, code, string(body))

	st, err := srv.client.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, st.Persons)
	assert.Equal(t, 2, st.Activities)
	assert.Equal(t, uint64(1), st.Version)
}

func TestActivitiesSortedByStart(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	byID, err := srv.client.Activities(ctx, "")
	require.NoError(t, err)
	require.Len(t, byID, 2)
	assert.Equal(t, "A001", byID[0].ID)

	byStart, err := srv.client.Activities(ctx, "start")
	require.NoError(t, err)
	require.Len(t, byStart, 2)
	assert.Equal(t, "A002", byStart[0].ID)
	assert.Equal(t, "15/10/2026 09:00", byStart[0].Start)

	one, err := srv.client.Activity(ctx, "A002")
	require.NoError(t, err)
	assert.Equal(t, "Ward round", one.Title)
}

func TestPersonsFilters(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	all, err := srv.client.Persons(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "D001", all[0].ID)

	patients, err := srv.client.Persons(ctx, "patient", "")
	require.NoError(t, err)
	require.Len(t, patients, 1)
	assert.Equal(t, "O+", patients[0].BloodType)

	named, err := srv.client.Persons(ctx, "", "AMY")
	require.NoError(t, err)
	require.Len(t, named, 1)
	assert.Equal(t, "Cardiology", named[0].Department)
}

func TestErrorEnvelopes(t *testing.T) {
	srv := newTestServer(t)

	code, body := get(t, srv.URL+"/v0/activities/A009")
	require.Equal(t, http.StatusNotFound, code)
	var env struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &env))
	assert.Equal(t, "not_found", env.Error.Code)

	code, body = get(t, srv.URL+"/v0/persons/X12")
	require.Equal(t, http.StatusBadRequest, code)
	require.NoError(t, json.Unmarshal(body, &env))
	assert.Equal(t, "bad_request", env.Error.Code)

	_, err := srv.client.Person(context.Background(), "P404")
	var apiErr *gomedicsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestStoreChangesReachReaders(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	_, err := srv.Engine.Execute(ctx, "delete t/activity A001")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		acts, err := srv.client.Activities(ctx, "")
		return err == nil && len(acts) == 1 && acts[0].ID == "A002"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestEventsPagination(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	_, err := srv.Engine.Execute(ctx, "list")
	require.NoError(t, err)
	_, err = srv.Engine.Execute(ctx, "bogus")
	require.Error(t, err)
	_, err = srv.Engine.Execute(ctx, "list t/activity o/start")
	require.NoError(t, err)

	page, err := srv.client.EventsPage(ctx, 2, "")
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.NotEmpty(t, page.NextCursor)
	assert.Equal(t, "list", page.Items[0].Command)
	assert.Equal(t, events.OutcomeParseError, page.Items[1].Outcome)

	rest, err := srv.client.EventsPage(ctx, 2, page.NextCursor)
	require.NoError(t, err)
	require.Len(t, rest.Items, 1)
	assert.Empty(t, rest.NextCursor)
	assert.Equal(t, events.OutcomeOK, rest.Items[0].Outcome)

	code, _ := get(t, srv.URL+"/v0/events?cursor=abc")
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := get(t, srv.URL+"/v0/events?outcome=parse_error")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body), "bogus")
}

func TestChangesStream(t *testing.T) {
	srv := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	errDone := errors.New("done")
	var got []gomedicsdk.Change
	err := srv.client.Watch(ctx, func(c gomedicsdk.Change) error {
		got = append(got, c)
		if len(got) == 1 {
			_, err := srv.Engine.Execute(context.Background(), "delete t/activity A002")
			return err
		}
		return errDone
	})
	require.ErrorIs(t, err, errDone)
	require.Len(t, got, 2)
	assert.Len(t, got[0].Activities, 2)
	assert.Greater(t, got[1].Version, got[0].Version)
	require.Len(t, got[1].Activities, 1)
	assert.Equal(t, "A001", got[1].Activities[0].ID)
}

func TestMetricsAndDocs(t *testing.T) {
	srv := newTestServer(t)
	_, err := srv.Engine.Execute(context.Background(), "list")
	require.NoError(t, err)

	code, body := get(t, srv.URL+"/metrics")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body), "gomedic_commands_total")

	code, body = get(t, srv.URL+"/v0/openapi.json")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, strings.Contains(string(body), "/activities/{id}"))

	code, _ = get(t, srv.URL+"/docs")
	assert.Equal(t, http.StatusOK, code)
}

func TestOpenAPIConcurrentRequests(t *testing.T) {
	srv := newTestServer(t)
	var wg sync.WaitGroup
	codes := make([]int, 8)
	for i := range codes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := http.Get(srv.URL + "/v0/openapi.json")
			if err != nil {
				return
			}
			defer res.Body.Close()
			_, _ = io.Copy(io.Discard, res.Body)
			codes[i] = res.StatusCode
		}(i)
	}
	wg.Wait()
	for _, code := range codes {
		assert.Equal(t, http.StatusOK, code)
	}
}
