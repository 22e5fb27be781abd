package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidTimestamp = errors.New("invalid datetime")

// Форматы ISO-8601: RFC 3339, без зоны (считаем UTC) или просто дата
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp parses the ISO-8601 forms accepted for due dates in both
// request bodies and list queries. Values without a zone are read as UTC.
// The result is always in UTC.
func ParseTimestamp(v string) (time.Time, error) {
	// RFC 3339 допускает строчные "t" и "z"
	s := strings.ToUpper(v)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w %q", ErrInvalidTimestamp, v)
}

func parseDueDate(v *string) (*time.Time, error) {
	if v == nil {
		return nil, nil
	}
	ts, err := ParseTimestamp(*v)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

// UnmarshalJSON decodes due_date with ParseTimestamp.
func (c *TaskCreate) UnmarshalJSON(data []byte) error {
	type plain TaskCreate
	aux := struct {
		*plain
		DueDate *string `json:"due_date"`
	}{plain: (*plain)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	due, err := parseDueDate(aux.DueDate)
	if err != nil {
		return err
	}
	c.DueDate = due
	return nil
}

// UnmarshalJSON decodes due_date with ParseTimestamp.
func (u *TaskUpdate) UnmarshalJSON(data []byte) error {
	type plain TaskUpdate
	aux := struct {
		*plain
		DueDate *string `json:"due_date"`
	}{plain: (*plain)(u)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	due, err := parseDueDate(aux.DueDate)
	if err != nil {
		return err
	}
	u.DueDate = due
	return nil
}
