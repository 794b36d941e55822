package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gomedic/internal/domain"
)

func TestParseID(t *testing.T) {
	id, err := domain.ParseID(" A001 ")
	require.NoError(t, err)
	assert.Equal(t, domain.PrefixActivity, id.Prefix())
	assert.Equal(t, 1, id.Number())
	assert.Equal(t, "A001", id.String())

	for _, bad := range []string{"", "A1", "A0001", "A000", "X001", "a001", "A0x1", "AAAA"} {
		_, err := domain.ParseID(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidID, bad)
	}
}

func TestIDOrdering(t *testing.T) {
	a2 := domain.MustParseID("A002")
	a10 := domain.MustParseID("A010")
	d1 := domain.MustParseID("D001")

	assert.True(t, a2.Less(a10))
	assert.True(t, a10.Less(d1))
	assert.Equal(t, 0, a2.Compare(domain.MustParseID("A002")))
	assert.True(t, a2.Equal(domain.MustParseID("A002")))
}

func TestParseTime(t *testing.T) {
	tm, err := domain.ParseTime("01/02/2026 13:45")
	require.NoError(t, err)
	assert.Equal(t, "01/02/2026 13:45", tm.String())
	assert.Equal(t, 2, int(tm.Std().Month()))

	_, err = domain.ParseTime("2026-02-01 13:45")
	assert.ErrorIs(t, err, domain.ErrInvalidTime)

	early := domain.MustParseTime("01/02/2026 13:44")
	assert.True(t, early.Before(tm))
	assert.True(t, tm.After(early))
	assert.False(t, tm.Equal(early))
}

func TestConstraint(t *testing.T) {
	_, err := domain.ParseID("X1")
	assert.Equal(t, domain.IDConstraints, domain.Constraint(err))
	_, err = domain.NewAge(200)
	assert.Equal(t, domain.AgeConstraints, domain.Constraint(err))
	assert.Equal(t, "boom", domain.Constraint(errors.New("boom")))
}
