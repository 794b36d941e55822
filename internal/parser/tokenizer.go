package parser

import (
	"sort"
	"strings"
	"unicode"
)

const (
	prefixType        = "t/"
	prefixStart       = "s/"
	prefixEnd         = "e/"
	prefixTitle       = "ti/"
	prefixDescription = "d/"
	prefixName        = "n/"
	prefixPhone       = "p/"
	prefixDepartment  = "de/"
	prefixAge         = "a/"
	prefixGender      = "g/"
	prefixBloodType   = "b/"
	prefixCondition   = "m/"
	prefixOrder       = "o/"
)

var allPrefixes = []string{
	prefixType, prefixStart, prefixEnd, prefixTitle, prefixDescription, prefixName, prefixPhone,
	prefixDepartment, prefixAge, prefixGender, prefixBloodType, prefixCondition, prefixOrder,
}

// argMap holds the text before the first prefix and every value seen per prefix, in order.
type argMap struct {
	preamble string
	values   map[string][]string
}

func (m argMap) has(prefix string) bool { return len(m.values[prefix]) > 0 }

// value returns the last value given for prefix.
func (m argMap) value(prefix string) (string, bool) {
	vs := m.values[prefix]
	if len(vs) == 0 {
		return "", false
	}
	return vs[len(vs)-1], true
}

func (m argMap) all(prefix string) []string { return m.values[prefix] }

type position struct {
	at     int
	prefix string
}

// tokenize splits args on the known prefixes. A prefix only counts when it starts the
// string or follows whitespace, so "d/" inside "and/or" stays part of a value.
func tokenize(args string) argMap {
	text := " " + args
	var found []position
	for _, p := range allPrefixes {
		from := 0
		for {
			i := strings.Index(text[from:], p)
			if i < 0 {
				break
			}
			at := from + i
			if at > 0 && unicode.IsSpace(rune(text[at-1])) {
				found = append(found, position{at: at, prefix: p})
			}
			from = at + 1
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].at < found[j].at })

	m := argMap{values: map[string][]string{}}
	end := len(text)
	if len(found) > 0 {
		end = found[0].at
	}
	m.preamble = strings.TrimSpace(text[:end])
	for i, pos := range found {
		end := len(text)
		if i+1 < len(found) {
			end = found[i+1].at
		}
		v := strings.TrimSpace(text[pos.at+len(pos.prefix) : end])
		m.values[pos.prefix] = append(m.values[pos.prefix], v)
	}
	return m
}
