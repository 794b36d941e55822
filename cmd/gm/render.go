package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"gomedic/internal/command"
	"gomedic/internal/record"
	gomedicsdk "gomedic/sdk/go"
)

type resultOutput struct {
	Feedback   string            `json:"feedback"`
	Persons    []record.Person   `json:"persons,omitempty"`
	Activities []record.Activity `json:"activities,omitempty"`
}

// printResult writes the feedback of a command followed by the listings it refers to.
func printResult(w io.Writer, res command.Result, asJSON bool) error {
	snap := record.FromViews(res.Persons, res.Activities)
	if asJSON {
		return writeJSON(w, resultOutput{Feedback: res.Feedback, Persons: snap.Persons, Activities: snap.Activities})
	}
	fmt.Fprintln(w, res.Feedback)
	if res.Listing == command.ListingPersons || res.Listing == command.ListingAll {
		renderPersons(w, snap.Persons)
	}
	if res.Listing == command.ListingActivities || res.Listing == command.ListingAll {
		renderActivities(w, snap.Activities)
	}
	return nil
}

// renderPersons numbers rows from 1, the index that delete and edit take.
func renderPersons(w io.Writer, persons []record.Person) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"#", "ID", "Name", "Phone", "Details"})
	for i, p := range persons {
		tw.AppendRow(table.Row{i + 1, p.ID, p.Name, p.Phone, personDetails(p)})
	}
	tw.Render()
}

func personDetails(p record.Person) string {
	if p.Department != "" {
		return p.Department
	}
	parts := []string{strconv.Itoa(p.Age), p.Gender, p.BloodType}
	if len(p.Conditions) > 0 {
		parts = append(parts, strings.Join(p.Conditions, ", "))
	}
	return strings.Join(parts, " / ")
}

func renderActivities(w io.Writer, activities []record.Activity) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"ID", "Start", "End", "Title", "Description"})
	for _, a := range activities {
		tw.AppendRow(table.Row{a.ID, a.Start, a.End, a.Title, a.Description})
	}
	tw.Render()
}

func renderEvents(w io.Writer, evts []record.Event) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"ID", "Time", "Command", "Outcome", "Message"})
	for _, e := range evts {
		tw.AppendRow(table.Row{e.ID, e.TS, e.Command, e.Outcome, e.Message})
	}
	tw.Render()
}

func sdkPersons(in []gomedicsdk.Person) []record.Person {
	out := make([]record.Person, 0, len(in))
	for _, p := range in {
		out = append(out, record.Person(p))
	}
	return out
}

func sdkActivities(in []gomedicsdk.Activity) []record.Activity {
	out := make([]record.Activity, 0, len(in))
	for _, a := range in {
		out = append(out, record.Activity(a))
	}
	return out
}

func printJSON(v any) error {
	return writeJSON(os.Stdout, v)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
