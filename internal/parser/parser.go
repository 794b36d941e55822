// Package parser turns a line of user input into a command.
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gomedic/internal/command"
	"gomedic/internal/domain"
	"gomedic/internal/model"
)

const (
	MessageUnknownCommand = "Unknown command"
	MessageInvalidFormat  = "Invalid command format! \n%s"
)

// ErrParse is matched by every *ParseError.
var ErrParse = errors.New("parse error")

// ParseError is returned when the input does not form a valid command.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string        { return e.Msg }
func (e *ParseError) Is(target error) bool { return target == ErrParse }

func invalidFormat(usage string) error {
	return &ParseError{Msg: fmt.Sprintf(MessageInvalidFormat, usage)}
}

func constraint(err error) error {
	return &ParseError{Msg: domain.Constraint(err)}
}

// Parser is stateless; the zero value is ready to use.
type Parser struct{}

func (Parser) Parse(text string) (command.Command, error) { return Parse(text) }

// Parse reads the command word and hands the rest to the matching sub-parser.
func Parse(text string) (command.Command, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalidFormat(UsageHelp)
	}
	word, args, _ := strings.Cut(text, " ")
	switch word {
	case "add":
		return parseAdd(args)
	case "delete":
		return parseDelete(args)
	case "edit":
		return parseEdit(args)
	case "list":
		return parseList(args)
	case "find":
		return parseFind(args)
	case "clear":
		return command.Clear{}, nil
	case "help":
		return command.Help{}, nil
	case "exit":
		return command.Exit{}, nil
	default:
		return nil, &ParseError{Msg: MessageUnknownCommand}
	}
}

// entityType splits the t/ value into the type word and whatever trails it.
func entityType(m argMap) (typ, rest string, ok bool) {
	v, ok := m.value(prefixType)
	if !ok {
		return "", "", false
	}
	typ, rest, _ = strings.Cut(strings.TrimSpace(v), " ")
	return strings.ToLower(typ), strings.TrimSpace(rest), true
}

func parseAdd(args string) (command.Command, error) {
	m := tokenize(args)
	typ, rest, ok := entityType(m)
	if !ok || m.preamble != "" || rest != "" {
		return nil, invalidFormat(UsageAdd)
	}
	switch typ {
	case "activity":
		return parseAddActivity(m)
	case "doctor", "patient":
		return parseAddPerson(domain.Kind(typ), m)
	default:
		return nil, invalidFormat(UsageAdd)
	}
}

func parseAddActivity(m argMap) (command.Command, error) {
	if !m.has(prefixStart) || !m.has(prefixEnd) || !m.has(prefixTitle) {
		return nil, invalidFormat(UsageAddActivity)
	}
	c := command.AddActivity{}
	var err error
	if c.Start, err = timeArg(m, prefixStart); err != nil {
		return nil, err
	}
	if c.End, err = timeArg(m, prefixEnd); err != nil {
		return nil, err
	}
	if !c.Start.Before(c.End) {
		return nil, &ParseError{Msg: domain.ActivityConstraints}
	}
	v, _ := m.value(prefixTitle)
	if c.Title, err = domain.NewTitle(v); err != nil {
		return nil, constraint(err)
	}
	v, _ = m.value(prefixDescription)
	if c.Description, err = domain.NewDescription(v); err != nil {
		return nil, constraint(err)
	}
	return c, nil
}

func parseAddPerson(kind domain.Kind, m argMap) (command.Command, error) {
	required := []string{prefixName, prefixPhone, prefixDepartment}
	usage := UsageAddDoctor
	if kind == domain.KindPatient {
		required = []string{prefixName, prefixPhone, prefixAge, prefixGender}
		usage = UsageAddPatient
	}
	for _, p := range required {
		if !m.has(p) {
			return nil, invalidFormat(usage)
		}
	}
	edits, err := personEdits(m)
	if err != nil {
		return nil, err
	}
	f := command.PersonFields{Conditions: edits.Conditions}
	f.Name = *edits.Name
	f.Phone = *edits.Phone
	if kind == domain.KindDoctor {
		f.Department = *edits.Department
	} else {
		f.Age = *edits.Age
		f.Gender = *edits.Gender
		if edits.BloodType != nil {
			f.BloodType = *edits.BloodType
		}
	}
	return command.AddPerson{Kind: kind, Fields: f}, nil
}

func parseDelete(args string) (command.Command, error) {
	m := tokenize(args)
	typ, rest, ok := entityType(m)
	if !ok {
		idx, err := index(m.preamble, UsageDelete)
		if err != nil {
			return nil, err
		}
		return command.DeletePerson{Index: idx}, nil
	}
	if typ != "activity" || m.preamble != "" {
		return nil, invalidFormat(UsageDelete)
	}
	id, err := domain.ParseID(rest)
	if err != nil {
		return nil, invalidFormat(UsageDeleteActivity)
	}
	return command.DeleteActivity{Target: id}, nil
}

func parseEdit(args string) (command.Command, error) {
	m := tokenize(args)
	typ, rest, ok := entityType(m)
	if !ok {
		idx, err := index(m.preamble, UsageEdit)
		if err != nil {
			return nil, err
		}
		edits, err := personEdits(m)
		if err != nil {
			return nil, err
		}
		return command.EditPerson{Index: idx, Edits: edits}, nil
	}
	if typ != "activity" || m.preamble != "" {
		return nil, invalidFormat(UsageEdit)
	}
	id, err := domain.ParseID(rest)
	if err != nil {
		return nil, invalidFormat(UsageEditActivity)
	}
	c := command.EditActivity{Target: id}
	if m.has(prefixStart) {
		t, err := timeArg(m, prefixStart)
		if err != nil {
			return nil, err
		}
		c.Start = &t
	}
	if m.has(prefixEnd) {
		t, err := timeArg(m, prefixEnd)
		if err != nil {
			return nil, err
		}
		c.End = &t
	}
	if v, ok := m.value(prefixTitle); ok {
		title, err := domain.NewTitle(v)
		if err != nil {
			return nil, constraint(err)
		}
		c.Title = &title
	}
	if v, ok := m.value(prefixDescription); ok {
		desc, err := domain.NewDescription(v)
		if err != nil {
			return nil, constraint(err)
		}
		c.Description = &desc
	}
	return c, nil
}

func parseList(args string) (command.Command, error) {
	m := tokenize(args)
	typ, rest, ok := entityType(m)
	if m.preamble != "" || rest != "" {
		return nil, invalidFormat(UsageList)
	}
	c := command.List{Target: command.ListingAll}
	if ok {
		switch typ {
		case "person", "persons":
			c.Target = command.ListingPersons
		case "activity", "activities":
			c.Target = command.ListingActivities
		default:
			return nil, invalidFormat(UsageList)
		}
	}
	if v, ok := m.value(prefixOrder); ok {
		switch strings.ToLower(v) {
		case "start":
			c.Order = model.OrderByStartTime
		case "id":
			c.Order = model.OrderByID
		default:
			return nil, invalidFormat(UsageList)
		}
	}
	return c, nil
}

func parseFind(args string) (command.Command, error) {
	m := tokenize(args)
	typ, rest, ok := entityType(m)
	if !ok {
		keywords := strings.Fields(m.preamble)
		if len(keywords) == 0 {
			return nil, invalidFormat(UsageFind)
		}
		return command.FindPersons{Keywords: keywords}, nil
	}
	keywords := strings.Fields(rest)
	if typ != "activity" || m.preamble != "" || len(keywords) == 0 {
		return nil, invalidFormat(UsageFind)
	}
	return command.FindActivities{Keywords: keywords}, nil
}

func index(s, usage string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, invalidFormat(usage)
	}
	return n, nil
}

func timeArg(m argMap, prefix string) (domain.Time, error) {
	v, _ := m.value(prefix)
	t, err := domain.ParseTime(v)
	if err != nil {
		return domain.Time{}, constraint(err)
	}
	return t, nil
}

// personEdits reads every person prefix present in m. m/ may repeat; a lone empty m/ clears
// the conditions.
func personEdits(m argMap) (command.PersonEdits, error) {
	var e command.PersonEdits
	if v, ok := m.value(prefixName); ok {
		n, err := domain.NewName(v)
		if err != nil {
			return e, constraint(err)
		}
		e.Name = &n
	}
	if v, ok := m.value(prefixPhone); ok {
		p, err := domain.NewPhone(v)
		if err != nil {
			return e, constraint(err)
		}
		e.Phone = &p
	}
	if v, ok := m.value(prefixDepartment); ok {
		d, err := domain.NewDepartment(v)
		if err != nil {
			return e, constraint(err)
		}
		e.Department = &d
	}
	if v, ok := m.value(prefixAge); ok {
		a, err := domain.ParseAge(v)
		if err != nil {
			return e, constraint(err)
		}
		e.Age = &a
	}
	if v, ok := m.value(prefixGender); ok {
		g, err := domain.NewGender(v)
		if err != nil {
			return e, constraint(err)
		}
		e.Gender = &g
	}
	if v, ok := m.value(prefixBloodType); ok {
		b, err := domain.NewBloodType(v)
		if err != nil {
			return e, constraint(err)
		}
		e.BloodType = &b
	}
	if vs := m.all(prefixCondition); len(vs) > 0 {
		e.ConditionsSet = true
		if len(vs) == 1 && vs[0] == "" {
			return e, nil
		}
		for _, v := range vs {
			c, err := domain.NewCondition(v)
			if err != nil {
				return e, constraint(err)
			}
			e.Conditions = append(e.Conditions, c)
		}
	}
	return e, nil
}
