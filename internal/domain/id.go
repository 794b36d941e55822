package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Prefix is the leading letter of an ID and names the entity kind it belongs to.
type Prefix byte

const (
	PrefixActivity Prefix = 'A'
	PrefixDoctor   Prefix = 'D'
	PrefixPatient  Prefix = 'P'
)

const (
	MaxIDNumber = 999

	IDConstraints = "Id must start with one of A, D or P followed by exactly 3 digits, from 001 to 999"
)

func (p Prefix) valid() bool {
	return p == PrefixActivity || p == PrefixDoctor || p == PrefixPatient
}

// ID is the unique key of an activity or a person, e.g. A001.
type ID struct {
	prefix Prefix
	num    int
}

// NewID builds an ID from its parts.
func NewID(prefix Prefix, n int) (ID, error) {
	if !prefix.valid() || n < 1 || n > MaxIDNumber {
		return ID{}, fmt.Errorf("%w: %s", ErrInvalidID, IDConstraints)
	}
	return ID{prefix: prefix, num: n}, nil
}

// ParseID parses the textual form of an ID. Surrounding whitespace is ignored.
func ParseID(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if len(s) != 4 {
		return ID{}, fmt.Errorf("%w: %s", ErrInvalidID, IDConstraints)
	}
	digits := s[1:]
	for _, r := range digits {
		if r < '0' || r > '9' {
			return ID{}, fmt.Errorf("%w: %s", ErrInvalidID, IDConstraints)
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return ID{}, fmt.Errorf("%w: %s", ErrInvalidID, IDConstraints)
	}
	return NewID(Prefix(s[0]), n)
}

// MustParseID is ParseID for fixtures; it panics on invalid input.
func MustParseID(s string) ID {
	id, err := ParseID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (id ID) Prefix() Prefix { return id.prefix }
func (id ID) Number() int    { return id.num }
func (id ID) IsZero() bool   { return id.prefix == 0 }

func (id ID) String() string {
	if id.IsZero() {
		return ""
	}
	return fmt.Sprintf("%c%03d", id.prefix, id.num)
}

func (id ID) Equal(other ID) bool {
	return id == other
}

// Compare orders by prefix first, then by numeric value.
func (id ID) Compare(other ID) int {
	switch {
	case id.prefix < other.prefix:
		return -1
	case id.prefix > other.prefix:
		return 1
	case id.num < other.num:
		return -1
	case id.num > other.num:
		return 1
	}
	return 0
}

func (id ID) Less(other ID) bool {
	return id.Compare(other) < 0
}
