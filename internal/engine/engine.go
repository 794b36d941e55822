// Package engine runs user input against the record store and persists the outcome.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"gomedic/internal/command"
	"gomedic/internal/domain"
	"gomedic/internal/events"
	"gomedic/internal/logging"
	"gomedic/internal/metrics"
	"gomedic/internal/model"
	"gomedic/internal/parser"
	"gomedic/internal/record"
	"gomedic/internal/storage"
)

// FileOpsErrorMessage prefixes the cause of a failed save.
const FileOpsErrorMessage = "Could not save data to file: "

type Parser interface {
	Parse(text string) (command.Command, error)
}

// EventLog receives one entry per executed command.
type EventLog interface {
	Append(ctx context.Context, e events.Entry) error
}

type Engine struct {
	Store   *model.Store
	Parser  Parser
	Storage storage.Storage
	Events  EventLog
	Metrics *metrics.Recorder
	Logger  *slog.Logger
	Now     func() time.Time
}

func New(store *model.Store, st storage.Storage) Engine {
	return Engine{
		Store:   store,
		Parser:  parser.Parser{},
		Storage: st,
		Logger:  logging.Discard(),
		Now:     time.Now,
	}
}

func (e Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Engine) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return logging.Discard()
}

// Execute parses text, runs the command and saves the store when the command changed it.
// A failed save is reported with FileOpsErrorMessage; the in-memory change is kept.
func (e Engine) Execute(ctx context.Context, text string) (command.Result, error) {
	started := e.now()
	invocation := uuid.NewString()
	word := commandWord(text)
	log := e.logger().With("invocation", invocation, "command", word)
	log.Debug("executing command", "input", text)

	p := e.Parser
	if p == nil {
		p = parser.Parser{}
	}
	cmd, err := p.Parse(text)
	if err != nil {
		log.Info("command not understood", "error", err)
		e.finish(ctx, invocation, word, text, events.OutcomeParseError, err.Error(), started)
		return command.Result{}, err
	}

	before := e.Store.Version()
	res, err := cmd.Execute(ctx, e.Store)
	if err != nil {
		cerr := command.Wrap(err)
		log.Info("command rejected", "error", cerr.Msg)
		e.finish(ctx, invocation, word, text, events.OutcomeRejected, cerr.Msg, started)
		return command.Result{}, cerr
	}

	if e.Store.Version() != before && e.Storage != nil {
		if err := e.Storage.Save(ctx, record.Capture(e.Store)); err != nil {
			cerr := &command.Error{Msg: FileOpsErrorMessage + err.Error(), Err: err}
			log.Error("saving record failed", "error", err)
			e.finish(ctx, invocation, word, text, events.OutcomeSaveFailure, cerr.Msg, started)
			return command.Result{}, cerr
		}
	}
	e.finish(ctx, invocation, word, text, events.OutcomeOK, res.Feedback, started)
	return res, nil
}

// finish records the outcome. Audit failures are logged, never returned.
func (e Engine) finish(ctx context.Context, invocation, word, input, outcome, message string, started time.Time) {
	e.Metrics.Observe(ctx, word, outcome, e.now().Sub(started))
	e.Metrics.SetEntities(e.Store.Persons().Len(), e.Store.Activities().Len())
	if e.Events == nil {
		return
	}
	err := e.Events.Append(ctx, events.Entry{
		InvocationID: invocation,
		Command:      word,
		Outcome:      outcome,
		Message:      message,
		Payload:      events.EventPayload{"input": input, "version": e.Store.Version()},
	})
	if err != nil {
		e.logger().Warn("append event failed", "invocation", invocation, "error", err)
	}
}

func commandWord(text string) string {
	word, _, _ := strings.Cut(strings.TrimSpace(text), " ")
	return word
}

func (e Engine) FilteredPersons() model.View[domain.Person] {
	return e.Store.FilteredPersons()
}

func (e Engine) FilteredActivities() model.View[domain.Activity] {
	return e.Store.FilteredActivities()
}

// Load replaces the store content with what the storage holds. ErrNoData and
// ErrDataConversion are returned unchanged so the caller can choose a fallback.
func (e Engine) Load(ctx context.Context) error {
	if e.Storage == nil {
		return storage.ErrNoData
	}
	snap, err := e.Storage.Load(ctx)
	if err != nil {
		return err
	}
	if err := snap.Load(e.Store); err != nil {
		return err
	}
	e.Metrics.SetEntities(e.Store.Persons().Len(), e.Store.Activities().Len())
	return nil
}

// Save writes the current store content regardless of version.
func (e Engine) Save(ctx context.Context) error {
	if e.Storage == nil {
		return errors.New("no storage configured")
	}
	return e.Storage.Save(ctx, record.Capture(e.Store))
}
