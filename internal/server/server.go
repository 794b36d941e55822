package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"
	"sync"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/go-chi/chi/v5"

	"gomedic/internal/domain"
	"gomedic/internal/metrics"
	"gomedic/internal/model"
	"gomedic/internal/repo"
)

// Config for the HTTP API handler. The API only reads; Feed is the single source of store
// state and Repo serves the event log.
type Config struct {
	Feed     *Feed
	Repo     repo.Repo
	Metrics  *metrics.Recorder
	BasePath string
}

type apiErrorBody struct {
	Code    string         `json:"code" example:"not_found"`
	Message string         `json:"message" example:"activity A009 not found"`
	Details map[string]any `json:"details,omitempty" jsonschema:"type=object,additionalProperties=true"`
}

// apiError is the error envelope of every failed request.
type apiError struct {
	status int
	Body   apiErrorBody `json:"error"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Body.Message }

// New returns an HTTP handler exposing the read-only view API.
func New(cfg Config) (http.Handler, error) {
	if cfg.Feed == nil {
		return nil, errors.New("server: feed is required")
	}
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/v0"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	huma.DefaultArrayNullable = false
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		return newAPIError(status, "", msg, nil)
	}
	huma.NewErrorWithContext = func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
		if status == http.StatusUnprocessableEntity && strings.Contains(strings.ToLower(msg), "validation") {
			status = http.StatusBadRequest
		}
		var details map[string]any
		if len(errs) > 0 {
			details = map[string]any{"errors": errs}
		}
		return newAPIError(status, "", msg, details)
	}

	router := chi.NewRouter()
	hcfg := huma.DefaultConfig("GoMedic API", "0.1.0")
	hcfg.OpenAPIPath = ""
	hcfg.DocsPath = ""
	api := humachi.New(router, hcfg)
	group := huma.NewGroup(api, basePath)

	registerDocs(router, basePath)
	registerHealth(group)
	registerStatus(group, cfg.Feed)
	registerPersons(group, cfg.Feed)
	registerActivities(group, cfg.Feed)
	registerEvents(group, cfg.Repo)
	registerChanges(group, cfg.Feed)
	registerOpenAPI(router, api, basePath)
	if cfg.Metrics != nil {
		router.Handle("/metrics", cfg.Metrics.Handler())
	}
	return router, nil
}

func newAPIError(status int, code, message string, details map[string]any) huma.StatusError {
	if code == "" {
		code = defaultCodeForStatus(status)
	}
	return &apiError{
		status: status,
		Body: apiErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

func handleError(err error) huma.StatusError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, repo.ErrNotFound), errors.Is(err, model.ErrNotFound):
		return newAPIError(http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, domain.ErrInvalidID):
		return newAPIError(http.StatusBadRequest, "bad_request", domain.Constraint(err), nil)
	default:
		return newAPIError(http.StatusInternalServerError, "internal_error", "internal error", map[string]any{"error": err.Error()})
	}
}

func defaultCodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusUnprocessableEntity:
		return "validation_failed"
	case http.StatusInternalServerError:
		return "internal_error"
	default:
		return strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
}

func registerDocs(r chi.Router, basePath string) {
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, swaggerHTML(basePath))
	})
}

func registerOpenAPI(r chi.Router, api huma.API, basePath string) {
	var (
		once sync.Once
		spec []byte
	)
	specPath := path.Join(basePath, "openapi.json")
	r.Get(specPath, func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() {
			oas := api.OpenAPI()
			ensureDefaultErrorResponses(oas)
			spec, _ = json.Marshal(oas)
		})
		w.Header().Set("Content-Type", "application/json")
		w.Write(spec)
	})
}

func ensureDefaultErrorResponses(oas *huma.OpenAPI) {
	if oas == nil || oas.Paths == nil {
		return
	}
	for _, item := range oas.Paths {
		if item.Get == nil {
			continue
		}
		if item.Get.Responses == nil {
			item.Get.Responses = map[string]*huma.Response{}
		}
		item.Get.Responses["default"] = &huma.Response{Description: "Error"}
	}
}

func swaggerHTML(basePath string) string {
	specURL := path.Join("/", path.Join(basePath, "openapi.json"))
	return fmt.Sprintf(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <title>GoMedic API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js" crossorigin></script>
    <script>
      window.onload = () => { SwaggerUIBundle({ url: '%s', dom_id: '#swagger-ui' }); };
    </script>
  </body>
</html>`, specURL)
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "ok"}}, nil
	})
}

func registerStatus(api huma.API, feed *Feed) {
	huma.Register(api, huma.Operation{
		OperationID: "status",
		Method:      http.MethodGet,
		Path:        "/status",
		Summary:     "Store version and entity counts",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body StatusResponse `json:"body"`
	}, error) {
		return &struct {
			Body StatusResponse `json:"body"`
		}{Body: statusResponse(feed.Current())}, nil
	})
}

func registerPersons(api huma.API, feed *Feed) {
	huma.Register(api, huma.Operation{
		OperationID: "list-persons",
		Method:      http.MethodGet,
		Path:        "/persons",
		Summary:     "List persons ordered by id",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Kind string `query:"kind" enum:"doctor,patient"`
		Q    string `query:"q" doc:"keep persons whose name contains this text, ignoring case"`
	}) (*struct {
		Body []PersonResponse `json:"body"`
	}, error) {
		q := strings.ToLower(strings.TrimSpace(input.Q))
		keep := func(p domain.Person) bool {
			if input.Kind != "" && string(p.Kind()) != input.Kind {
				return false
			}
			return q == "" || strings.Contains(strings.ToLower(string(p.Name())), q)
		}
		return &struct {
			Body []PersonResponse `json:"body"`
		}{Body: mapPersons(feed.Current().Persons, keep)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-person",
		Method:      http.MethodGet,
		Path:        "/persons/{id}",
		Summary:     "Get a person",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct {
		Body PersonResponse `json:"body"`
	}, error) {
		id, err := domain.ParseID(input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		for _, p := range feed.Current().Persons.All() {
			if p.ID().Equal(id) {
				return &struct {
					Body PersonResponse `json:"body"`
				}{Body: personResponse(p)}, nil
			}
		}
		return nil, handleError(fmt.Errorf("%w: person %s", model.ErrNotFound, id))
	})
}

func registerActivities(api huma.API, feed *Feed) {
	huma.Register(api, huma.Operation{
		OperationID: "list-activities",
		Method:      http.MethodGet,
		Path:        "/activities",
		Summary:     "List activities",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Sort string `query:"sort" enum:"id,start" default:"id"`
	}) (*struct {
		Body []ActivityResponse `json:"body"`
	}, error) {
		p := feed.Current()
		view := p.ActivitiesByID
		if input.Sort == "start" {
			view = p.ActivitiesByStartTime
		}
		return &struct {
			Body []ActivityResponse `json:"body"`
		}{Body: mapActivities(view)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-activity",
		Method:      http.MethodGet,
		Path:        "/activities/{id}",
		Summary:     "Get an activity",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct {
		Body ActivityResponse `json:"body"`
	}, error) {
		id, err := domain.ParseID(input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		for _, a := range feed.Current().ActivitiesByID.All() {
			if a.ID().Equal(id) {
				return &struct {
					Body ActivityResponse `json:"body"`
				}{Body: activityResponse(a)}, nil
			}
		}
		return nil, handleError(fmt.Errorf("%w: activity %s", model.ErrNotFound, id))
	})
}

func registerEvents(api huma.API, r repo.Repo) {
	huma.Register(api, huma.Operation{
		OperationID: "list-events",
		Method:      http.MethodGet,
		Path:        "/events",
		Summary:     "List recent command events, newest first",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Command string `query:"command"`
		Outcome string `query:"outcome" enum:"ok,parse_error,rejected,save_failed"`
		Limit   int    `query:"limit" default:"50"`
		Cursor  string `query:"cursor"`
	}) (*struct {
		Body paginatedEvents `json:"body"`
	}, error) {
		if r.DB == nil {
			return nil, newAPIError(http.StatusNotFound, "not_found", "event log not available", nil)
		}
		limit := normalizeLimit(input.Limit)
		var cursorID int64
		if input.Cursor != "" {
			parsed, err := strconv.ParseInt(input.Cursor, 10, 64)
			if err != nil {
				return nil, newAPIError(http.StatusBadRequest, "bad_request", "invalid cursor", map[string]any{"cursor": input.Cursor})
			}
			cursorID = parsed
		}
		items, err := r.LatestEvents(ctx, limit+1, repo.EventFilters{Command: input.Command, Outcome: input.Outcome, Before: cursorID})
		if err != nil {
			return nil, handleError(err)
		}
		resp := paginatedEvents{Items: []EventResponse{}}
		if len(items) > limit {
			items = items[:limit]
			resp.NextCursor = strconv.FormatInt(items[limit-1].ID, 10)
		}
		for _, evt := range items {
			resp.Items = append(resp.Items, eventResponse(evt))
		}
		return &struct {
			Body paginatedEvents `json:"body"`
		}{Body: resp}, nil
	})
}

func registerChanges(api huma.API, feed *Feed) {
	sse.Register(api, huma.Operation{
		OperationID: "changes",
		Method:      http.MethodGet,
		Path:        "/changes",
		Summary:     "Stream the store content after every change",
	}, map[string]any{
		"change": ChangeEvent{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		ch, cancel := feed.Subscribe()
		defer cancel()
		last := feed.Current()
		if err := send(sse.Message{ID: int(last.Version), Data: changeEvent(last)}); err != nil {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case p, ok := <-ch:
				if !ok {
					return
				}
				if p.Version <= last.Version {
					continue
				}
				last = p
				if err := send(sse.Message{ID: int(p.Version), Data: changeEvent(p)}); err != nil {
					return
				}
			}
		}
	})
}

func normalizeLimit(in int) int {
	if in <= 0 {
		return 50
	}
	if in > 200 {
		return 200
	}
	return in
}
