package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gomedic/internal/record"
)

type Repo struct {
	DB *sql.DB
}

var ErrNotFound = errors.New("not found")

// ReplaceAll swaps the stored persons and activities for the snapshot content in one
// transaction.
func (r Repo) ReplaceAll(ctx context.Context, snap record.Snapshot) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := r.ReplaceAllTx(ctx, tx, snap); err != nil {
		return err
	}
	return tx.Commit()
}

func (r Repo) ReplaceAllTx(ctx context.Context, tx *sql.Tx, snap record.Snapshot) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM persons`); err != nil {
		return fmt.Errorf("clear persons: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM activities`); err != nil {
		return fmt.Errorf("clear activities: %w", err)
	}
	for i, p := range snap.Persons {
		if err := r.InsertPersonTx(ctx, tx, p, i); err != nil {
			return err
		}
	}
	for i, a := range snap.Activities {
		if err := r.InsertActivityTx(ctx, tx, a, i); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO store_meta(key,value) VALUES ('saved',datetime('now')) ON CONFLICT(key) DO UPDATE SET value=excluded.value`); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `INSERT INTO store_meta(key,value) VALUES ('generation','1') ON CONFLICT(key) DO UPDATE SET value=CAST(CAST(value AS INTEGER)+1 AS TEXT)`)
	return err
}

// Generation counts committed ReplaceAll calls; 0 if it never ran.
func (r Repo) Generation(ctx context.Context) (int64, error) {
	var v int64
	err := r.DB.QueryRowContext(ctx, `SELECT CAST(value AS INTEGER) FROM store_meta WHERE key='generation'`).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return v, err
}

// SavedAt reports when ReplaceAll last committed; ErrNotFound if it never ran.
func (r Repo) SavedAt(ctx context.Context) (string, error) {
	var v string
	err := r.DB.QueryRowContext(ctx, `SELECT value FROM store_meta WHERE key='saved'`).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return v, err
}

func (r Repo) InsertPersonTx(ctx context.Context, tx *sql.Tx, p record.Person, position int) error {
	conds := p.Conditions
	if conds == nil {
		conds = []string{}
	}
	data, err := json.Marshal(conds)
	if err != nil {
		return fmt.Errorf("marshal conditions: %w", err)
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO persons(id,kind,name,phone,department,age,gender,blood_type,conditions_json,position) VALUES (?,?,?,?,?,?,?,?,?,?)`,
		p.ID, p.Kind, p.Name, p.Phone, p.Department, p.Age, p.Gender, p.BloodType, string(data), position)
	if err != nil {
		return fmt.Errorf("insert person %s: %w", p.ID, err)
	}
	return nil
}

func (r Repo) InsertActivityTx(ctx context.Context, tx *sql.Tx, a record.Activity, position int) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO activities(id,start_time,end_time,title,description,position) VALUES (?,?,?,?,?,?)`,
		a.ID, a.Start, a.End, a.Title, a.Description, position)
	if err != nil {
		return fmt.Errorf("insert activity %s: %w", a.ID, err)
	}
	return nil
}

// ListPersons returns persons in the order they were saved.
func (r Repo) ListPersons(ctx context.Context) ([]record.Person, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,kind,name,phone,department,age,gender,blood_type,conditions_json FROM persons ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []record.Person
	for rows.Next() {
		var (
			p     record.Person
			conds string
		)
		if err := rows.Scan(&p.ID, &p.Kind, &p.Name, &p.Phone, &p.Department, &p.Age, &p.Gender, &p.BloodType, &conds); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(conds), &p.Conditions); err != nil {
			return nil, fmt.Errorf("person %s conditions: %w", p.ID, err)
		}
		if len(p.Conditions) == 0 {
			p.Conditions = nil
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

// ListActivities returns activities in the order they were saved.
func (r Repo) ListActivities(ctx context.Context) ([]record.Activity, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,start_time,end_time,title,description FROM activities ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []record.Activity
	for rows.Next() {
		var a record.Activity
		if err := rows.Scan(&a.ID, &a.Start, &a.End, &a.Title, &a.Description); err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

func (r Repo) GetActivity(ctx context.Context, id string) (record.Activity, error) {
	var a record.Activity
	err := r.DB.QueryRowContext(ctx, `SELECT id,start_time,end_time,title,description FROM activities WHERE id=?`, id).
		Scan(&a.ID, &a.Start, &a.End, &a.Title, &a.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return a, ErrNotFound
	}
	return a, err
}

// Counts returns the number of stored rows per table.
func (r Repo) Counts(ctx context.Context) (persons, activities int, err error) {
	err = r.DB.QueryRowContext(ctx, `SELECT (SELECT COUNT(*) FROM persons), (SELECT COUNT(*) FROM activities)`).Scan(&persons, &activities)
	return persons, activities, err
}

type EventFilters struct {
	Command string
	Outcome string
	// Before, when set, only returns events with a smaller id.
	Before int64
}

// LatestEvents returns the newest events first.
func (r Repo) LatestEvents(ctx context.Context, limit int, f EventFilters) ([]record.Event, error) {
	if limit <= 0 {
		limit = 50
	}
	clauses := []string{"1=1"}
	var args []any
	if f.Command != "" {
		clauses = append(clauses, "command=?")
		args = append(args, f.Command)
	}
	if f.Outcome != "" {
		clauses = append(clauses, "outcome=?")
		args = append(args, f.Outcome)
	}
	if f.Before > 0 {
		clauses = append(clauses, "id<?")
		args = append(args, f.Before)
	}
	where := "WHERE " + strings.Join(clauses, " AND ")
	query := fmt.Sprintf(`SELECT id,ts,type,invocation_id,command,outcome,message,payload_json FROM events %s ORDER BY id DESC LIMIT ?`, where)
	args = append(args, limit)
	return r.queryEvents(ctx, query, args...)
}

// EventsAfter returns events with ids greater than the cursor in ascending order.
func (r Repo) EventsAfter(ctx context.Context, limit int, cursor int64) ([]record.Event, error) {
	if limit <= 0 {
		limit = 100
	}
	return r.queryEvents(ctx, `SELECT id,ts,type,invocation_id,command,outcome,message,payload_json FROM events WHERE id>? ORDER BY id ASC LIMIT ?`, cursor, limit)
}

func (r Repo) LatestEventID(ctx context.Context) (int64, error) {
	var id int64
	if err := r.DB.QueryRowContext(ctx, `SELECT COALESCE(MAX(id),0) FROM events`).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r Repo) queryEvents(ctx context.Context, query string, args ...any) ([]record.Event, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []record.Event
	for rows.Next() {
		var e record.Event
		if err := rows.Scan(&e.ID, &e.TS, &e.Type, &e.InvocationID, &e.Command, &e.Outcome, &e.Message, &e.Payload); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}
