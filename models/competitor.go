package models

import "strings"

// CompetitorID identifies a creature across the whole system. It is stored
// and compared in normalized form: lowercase, trimmed, inner whitespace and
// underscores collapsed to a single hyphen. The engine never interprets the
// value beyond equality and ordering.
type CompetitorID string

func NewCompetitorID(raw string) CompetitorID {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '_'
	}), "-")
	return CompetitorID(s)
}

func (c CompetitorID) String() string {
	return string(c)
}

func (c CompetitorID) IsZero() bool {
	return c == ""
}
