package domain

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

const (
	TitleConstraints       = "Title should not be blank and must be at most 60 characters long"
	DescriptionConstraints = "Description must be at most 500 characters long"
	NameConstraints        = "Names should only contain alphanumeric characters and spaces, and it should not be blank"
	PhoneConstraints       = "Phone numbers should only contain numbers, and it should be at least 3 digits long"
	DepartmentConstraints  = "Department should not be blank"
	AgeConstraints         = "Age should be a whole number between 0 and 150"
	GenderConstraints      = "Gender should be one of M, F or O"
	BloodTypeConstraints   = "Blood type should be one of A+, A-, B+, B-, AB+, AB-, O+, O-"
	ConditionConstraints   = "Medical condition should not be blank"

	maxTitleLen       = 60
	maxDescriptionLen = 500
	maxAge            = 150
)

func invalid(constraint string) error {
	return fmt.Errorf("%w: %s", ErrInvalidField, constraint)
}

type Title string

func NewTitle(s string) (Title, error) {
	s = strings.TrimSpace(s)
	if s == "" || len([]rune(s)) > maxTitleLen {
		return "", invalid(TitleConstraints)
	}
	return Title(s), nil
}

type Description string

func NewDescription(s string) (Description, error) {
	s = strings.TrimSpace(s)
	if len([]rune(s)) > maxDescriptionLen {
		return "", invalid(DescriptionConstraints)
	}
	return Description(s), nil
}

type Name string

func NewName(s string) (Name, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", invalid(NameConstraints)
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != ' ' {
			return "", invalid(NameConstraints)
		}
	}
	return Name(s), nil
}

type Phone string

func NewPhone(s string) (Phone, error) {
	s = strings.TrimSpace(s)
	if len(s) < 3 {
		return "", invalid(PhoneConstraints)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", invalid(PhoneConstraints)
		}
	}
	return Phone(s), nil
}

type Department string

func NewDepartment(s string) (Department, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", invalid(DepartmentConstraints)
	}
	return Department(s), nil
}

type Age int

func ParseAge(s string) (Age, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, invalid(AgeConstraints)
	}
	return NewAge(n)
}

func NewAge(n int) (Age, error) {
	if n < 0 || n > maxAge {
		return 0, invalid(AgeConstraints)
	}
	return Age(n), nil
}

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "O"
)

func NewGender(s string) (Gender, error) {
	switch g := Gender(strings.ToUpper(strings.TrimSpace(s))); g {
	case GenderMale, GenderFemale, GenderOther:
		return g, nil
	}
	return "", invalid(GenderConstraints)
}

type BloodType string

var bloodTypes = map[string]bool{
	"A+": true, "A-": true, "B+": true, "B-": true,
	"AB+": true, "AB-": true, "O+": true, "O-": true,
}

func NewBloodType(s string) (BloodType, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if !bloodTypes[s] {
		return "", invalid(BloodTypeConstraints)
	}
	return BloodType(s), nil
}

type Condition string

func NewCondition(s string) (Condition, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", invalid(ConditionConstraints)
	}
	return Condition(s), nil
}
