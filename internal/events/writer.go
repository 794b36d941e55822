// Package events appends the command audit log.
package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

const TypeCommandExecuted = "command.executed"

// Outcomes recorded per command.
const (
	OutcomeOK          = "ok"
	OutcomeParseError  = "parse_error"
	OutcomeRejected    = "rejected"
	OutcomeSaveFailure = "save_failed"
)

type Writer struct {
	DB  *sql.DB
	Now func() time.Time
}

type EventPayload map[string]any

type Entry struct {
	Type         string
	InvocationID string
	Command      string
	Outcome      string
	Message      string
	Payload      EventPayload
}

func (w Writer) Append(ctx context.Context, e Entry) error {
	return w.exec(ctx, w.DB, e)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (w Writer) exec(ctx context.Context, ex execer, e Entry) error {
	if w.Now == nil {
		w.Now = time.Now
	}
	ts := w.Now().UTC().Format(time.RFC3339)
	if e.Type == "" {
		e.Type = TypeCommandExecuted
	}
	if e.Payload == nil {
		e.Payload = EventPayload{}
	}
	data, err := json.Marshal(e.Payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	_, err = ex.ExecContext(ctx, `INSERT INTO events(ts,type,invocation_id,command,outcome,message,payload_json) VALUES (?,?,?,?,?,?,?)`,
		ts, e.Type, e.InvocationID, e.Command, e.Outcome, e.Message, string(data))
	return err
}
