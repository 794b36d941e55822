package command_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gomedic/internal/command"
	"gomedic/internal/domain"
	"gomedic/internal/model"
)

func tm(s string) domain.Time { return domain.MustParseTime("15/10/2026 " + s) }

func seeded(t *testing.T) *model.Store {
	t.Helper()
	s := model.NewStore()
	a1, err := domain.NewActivity(domain.MustParseID("A001"), tm("09:00"), tm("10:00"), "Ward round", "level 3")
	require.NoError(t, err)
	a2, err := domain.NewActivity(domain.MustParseID("A002"), tm("11:00"), tm("12:00"), "Surgery", "knee")
	require.NoError(t, err)
	d1, err := domain.NewDoctor(domain.MustParseID("D001"), "Amy Tan", "91234567", "Cardiology")
	require.NoError(t, err)
	p1, err := domain.NewPatient(domain.MustParseID("P001"), "Bob Lee", "81234567", 40, "M", "O+", []domain.Condition{"asthma"})
	require.NoError(t, err)
	require.NoError(t, s.Reset([]domain.Person{d1, p1}, []domain.Activity{a1, a2}))
	return s
}

func run(t *testing.T, c command.Command, m model.Model) (command.Result, error) {
	t.Helper()
	return c.Execute(context.Background(), m)
}

func TestAddActivityAssignsNextID(t *testing.T) {
	s := seeded(t)
	res, err := run(t, command.AddActivity{Start: tm("13:00"), End: tm("14:00"), Title: "Clinic"}, s)
	require.NoError(t, err)
	got, ok := s.Activity(domain.MustParseID("A003"))
	require.True(t, ok)
	assert.Equal(t, "New activity added: "+got.String(), res.Feedback)
}

func TestAddActivityConflictMessage(t *testing.T) {
	s := seeded(t)
	a1, _ := s.Activity(domain.MustParseID("A001"))
	_, err := run(t, command.AddActivity{Start: tm("10:00"), End: tm("10:30"), Title: "Touch"}, s)
	var ce *command.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "This activity conflicts with an existing activity: "+a1.String(), ce.Msg)
	require.ErrorIs(t, err, model.ErrConflict)
	assert.Equal(t, 2, s.Activities().Len())
}

func TestAddActivityInvalidInterval(t *testing.T) {
	s := seeded(t)
	_, err := run(t, command.AddActivity{Start: tm("14:00"), End: tm("13:00"), Title: "Backwards"}, s)
	var ce *command.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, domain.ActivityConstraints, ce.Msg)
}

func TestAddPerson(t *testing.T) {
	s := seeded(t)
	res, err := run(t, command.AddPerson{Kind: domain.KindDoctor, Fields: command.PersonFields{
		Name: "Cara", Phone: "999", Department: "Radiology",
	}}, s)
	require.NoError(t, err)
	p, ok := s.Person(domain.MustParseID("D002"))
	require.True(t, ok)
	assert.Equal(t, "New doctor added: "+p.String(), res.Feedback)

	res, err = run(t, command.AddPerson{Kind: domain.KindPatient, Fields: command.PersonFields{
		Name: "Dan", Phone: "888", Age: 9, Gender: "F", BloodType: "A+",
	}}, s)
	require.NoError(t, err)
	assert.Contains(t, res.Feedback, "New patient added: P002")
}

func TestDeleteActivityByID(t *testing.T) {
	s := model.NewStore()
	a1, err := domain.NewActivity(domain.MustParseID("A001"), tm("09:00"), tm("10:00"), "Only", "")
	require.NoError(t, err)
	require.NoError(t, s.AddActivity(a1))

	res, err := run(t, command.DeleteActivity{Target: domain.MustParseID("A001")}, s)
	require.NoError(t, err)
	assert.Equal(t, "Deleted Activity: "+a1.String(), res.Feedback)
	assert.Equal(t, 0, s.Activities().Len())
}

func TestDeleteActivityOutsideFilterIsInvalid(t *testing.T) {
	s := seeded(t)
	s.UpdateActivityFilter(func(a domain.Activity) bool { return a.Title() == "Surgery" })

	_, err := run(t, command.DeleteActivity{Target: domain.MustParseID("A001")}, s)
	var ce *command.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, command.MessageInvalidActivityID, ce.Msg)
	assert.Equal(t, 2, s.Activities().Len())

	_, err = run(t, command.DeleteActivity{Target: domain.MustParseID("A009")}, s)
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestDeletePersonByIndex(t *testing.T) {
	s := seeded(t)
	p1, _ := s.Person(domain.MustParseID("P001"))

	res, err := run(t, command.DeletePerson{Index: 2}, s)
	require.NoError(t, err)
	assert.Equal(t, "Deleted Person: "+p1.String(), res.Feedback)
	assert.False(t, s.HasPerson(p1.ID()))

	for _, idx := range []int{0, 2, 9} {
		_, err = run(t, command.DeletePerson{Index: idx}, s)
		var ce *command.Error
		require.ErrorAs(t, err, &ce, "index %d", idx)
		assert.Equal(t, command.MessageInvalidPersonIndex, ce.Msg)
	}
}

func TestEditActivity(t *testing.T) {
	s := seeded(t)
	start, end := tm("09:30"), tm("10:30")
	res, err := run(t, command.EditActivity{Target: domain.MustParseID("A001"), Start: &start, End: &end}, s)
	require.NoError(t, err)
	got, _ := s.Activity(domain.MustParseID("A001"))
	assert.Equal(t, domain.Title("Ward round"), got.Title())
	assert.Equal(t, "Edited Activity: "+got.String(), res.Feedback)

	// pushing the end into A002 conflicts and leaves A001 alone
	late := tm("11:00")
	_, err = run(t, command.EditActivity{Target: domain.MustParseID("A001"), End: &late}, s)
	require.ErrorIs(t, err, model.ErrConflict)
	again, _ := s.Activity(domain.MustParseID("A001"))
	assert.True(t, again.Equal(got))

	_, err = run(t, command.EditActivity{Target: domain.MustParseID("A001")}, s)
	var ce *command.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, command.MessageNotEdited, ce.Msg)
}

func TestEditPerson(t *testing.T) {
	s := seeded(t)
	phone := domain.Phone("6000")
	res, err := run(t, command.EditPerson{Index: 2, Edits: command.PersonEdits{Phone: &phone, ConditionsSet: true}}, s)
	require.NoError(t, err)
	p, _ := s.Person(domain.MustParseID("P001"))
	assert.Equal(t, phone, p.Phone())
	assert.Empty(t, p.Conditions())
	assert.Equal(t, "Edited Person: "+p.String(), res.Feedback)
}

func TestListAndFind(t *testing.T) {
	s := seeded(t)

	res, err := run(t, command.FindPersons{Keywords: []string{"amy"}}, s)
	require.NoError(t, err)
	assert.Equal(t, "1 persons listed!", res.Feedback)
	assert.Equal(t, 1, s.FilteredPersons().Len())

	res, err = run(t, command.FindActivities{Keywords: []string{"KNEE"}}, s)
	require.NoError(t, err)
	assert.Equal(t, "1 activities listed!", res.Feedback)
	assert.Equal(t, "A002", res.Activities.At(0).ID().String())

	res, err = run(t, command.List{Target: command.ListingAll}, s)
	require.NoError(t, err)
	assert.Equal(t, command.MessageListAll, res.Feedback)
	assert.Equal(t, 2, res.Persons.Len())
	assert.Equal(t, 2, res.Activities.Len())
}

func TestClearHelpExit(t *testing.T) {
	s := seeded(t)
	res, err := run(t, command.Clear{}, s)
	require.NoError(t, err)
	assert.Equal(t, command.MessageClearSuccess, res.Feedback)
	assert.Equal(t, 0, s.Persons().Len()+s.Activities().Len())

	res, _ = run(t, command.Help{}, s)
	assert.True(t, res.ShowHelp)
	res, _ = run(t, command.Exit{}, s)
	assert.True(t, res.Exit)
}
