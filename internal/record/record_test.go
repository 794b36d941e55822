package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gomedic/internal/domain"
	"gomedic/internal/model"
)

func sampleStore(t *testing.T) *model.Store {
	t.Helper()
	s := model.NewStore()
	a, err := domain.NewActivity(domain.MustParseID("A001"),
		domain.MustParseTime("15/10/2026 09:00"), domain.MustParseTime("15/10/2026 10:00"), "Ward round", "")
	require.NoError(t, err)
	d, err := domain.NewDoctor(domain.MustParseID("D001"), "Amy Tan", "91234567", "Cardiology")
	require.NoError(t, err)
	p, err := domain.NewPatient(domain.MustParseID("P001"), "Bob", "8123", 40, "M", "O+", []domain.Condition{"asthma"})
	require.NoError(t, err)
	require.NoError(t, s.Reset([]domain.Person{d, p}, []domain.Activity{a}))
	return s
}

func TestCaptureRestore(t *testing.T) {
	s := sampleStore(t)
	snap := Capture(s)
	require.Len(t, snap.Persons, 2)
	assert.Equal(t, "15/10/2026 09:00", snap.Activities[0].Start)
	assert.Equal(t, []string{"asthma"}, snap.Persons[1].Conditions)

	persons, activities, err := snap.Restore()
	require.NoError(t, err)
	for i, p := range s.Persons().All() {
		assert.True(t, p.Equal(persons[i]))
	}
	assert.True(t, s.Activities().At(0).Equal(activities[0]))
}

func TestRestoreRejectsBadData(t *testing.T) {
	good := Capture(sampleStore(t))

	badTime := good
	badTime.Activities = []Activity{{ID: "A001", Start: "yesterday", End: "15/10/2026 10:00", Title: "x"}}
	_, _, err := badTime.Restore()
	assert.ErrorIs(t, err, ErrDataConversion)

	conflicting := good
	conflicting.Activities = append([]Activity{}, good.Activities[0], good.Activities[0])
	conflicting.Activities[1].ID = "A002"
	_, _, err = conflicting.Restore()
	assert.ErrorIs(t, err, ErrDataConversion)
	assert.ErrorIs(t, err, model.ErrConflict)

	kind := good
	kind.Persons = []Person{{ID: "D001", Kind: "nurse", Name: "x", Phone: "123"}}
	_, _, err = kind.Restore()
	assert.ErrorIs(t, err, ErrDataConversion)
}
