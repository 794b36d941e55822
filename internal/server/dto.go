package server

import (
	"encoding/json"

	"gomedic/internal/domain"
	"gomedic/internal/model"
	"gomedic/internal/record"
)

type PersonResponse struct {
	ID         string   `json:"id" example:"D001"`
	Kind       string   `json:"kind" enum:"doctor,patient"`
	Name       string   `json:"name"`
	Phone      string   `json:"phone"`
	Department string   `json:"department,omitempty"`
	Age        int      `json:"age,omitempty"`
	Gender     string   `json:"gender,omitempty" enum:"M,F,O"`
	BloodType  string   `json:"blood_type,omitempty"`
	Conditions []string `json:"medical_conditions,omitempty"`
}

type ActivityResponse struct {
	ID          string `json:"id" example:"A001"`
	Start       string `json:"start_time" example:"15/10/2026 09:00"`
	End         string `json:"end_time" example:"15/10/2026 10:00"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type StatusResponse struct {
	Version    uint64 `json:"version"`
	Persons    int    `json:"persons"`
	Activities int    `json:"activities"`
}

type EventResponse struct {
	ID           int64          `json:"id"`
	TS           string         `json:"ts" format:"date-time"`
	Type         string         `json:"type"`
	InvocationID string         `json:"invocation_id"`
	Command      string         `json:"command"`
	Outcome      string         `json:"outcome"`
	Message      string         `json:"message,omitempty"`
	Payload      map[string]any `json:"payload"`
}

type paginatedEvents struct {
	Items      []EventResponse `json:"items"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

// ChangeEvent is streamed on /changes after every store mutation.
type ChangeEvent struct {
	Version    uint64             `json:"version"`
	Persons    []PersonResponse   `json:"persons"`
	Activities []ActivityResponse `json:"activities"`
}

func personResponse(p domain.Person) PersonResponse {
	return PersonResponse(record.FromPerson(p))
}

func activityResponse(a domain.Activity) ActivityResponse {
	return ActivityResponse(record.FromActivity(a))
}

func mapPersons(v model.View[domain.Person], keep func(domain.Person) bool) []PersonResponse {
	out := make([]PersonResponse, 0, v.Len())
	for _, p := range v.All() {
		if keep == nil || keep(p) {
			out = append(out, personResponse(p))
		}
	}
	return out
}

func mapActivities(v model.View[domain.Activity]) []ActivityResponse {
	out := make([]ActivityResponse, 0, v.Len())
	for _, a := range v.All() {
		out = append(out, activityResponse(a))
	}
	return out
}

func statusResponse(p *model.Projection) StatusResponse {
	return StatusResponse{Version: p.Version, Persons: p.Persons.Len(), Activities: p.ActivitiesByID.Len()}
}

func changeEvent(p *model.Projection) ChangeEvent {
	return ChangeEvent{
		Version:    p.Version,
		Persons:    mapPersons(p.Persons, nil),
		Activities: mapActivities(p.ActivitiesByStartTime),
	}
}

func eventResponse(e record.Event) EventResponse {
	return EventResponse{
		ID:           e.ID,
		TS:           e.TS,
		Type:         e.Type,
		InvocationID: e.InvocationID,
		Command:      e.Command,
		Outcome:      e.Outcome,
		Message:      e.Message,
		Payload:      decodeJSONMap(e.Payload),
	}
}

func decodeJSONMap(raw string) map[string]any {
	out := map[string]any{}
	if raw == "" {
		return out
	}
	_ = json.Unmarshal([]byte(raw), &out)
	return out
}
