package command

import (
	"context"

	"gomedic/internal/model"
)

// Clear empties the whole record.
type Clear struct{}

func (Clear) Execute(_ context.Context, m model.Model) (Result, error) {
	m.Clear()
	m.UpdatePersonFilter(model.ShowAllPersons)
	m.UpdateActivityFilter(model.ShowAllActivities)
	return Result{Feedback: MessageClearSuccess}, nil
}

type Help struct{}

func (Help) Execute(context.Context, model.Model) (Result, error) {
	return Result{Feedback: MessageHelp, ShowHelp: true}, nil
}

type Exit struct{}

func (Exit) Execute(context.Context, model.Model) (Result, error) {
	return Result{Feedback: MessageExit, Exit: true}, nil
}
