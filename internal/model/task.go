package model

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Limits in Unicode code points.
const (
	TitleMaxLen       = 200
	DescriptionMaxLen = 2000
)

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Status      Status     `json:"status"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskCreate - тело запроса на создание
type TaskCreate struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Status      Status     `json:"status,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// TaskUpdate - частичное обновление, nil означает "не менять"
type TaskUpdate struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *Status    `json:"status,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// Changes returns only the fields the client actually supplied, keyed by
// their stored field name. A null value counts as not supplied, so a field
// can never be cleared through an update.
func (u TaskUpdate) Changes() map[string]any {
	changes := make(map[string]any, 4)
	if u.Title != nil {
		changes["title"] = *u.Title
	}
	if u.Description != nil {
		changes["description"] = *u.Description
	}
	if u.Status != nil {
		changes["status"] = string(*u.Status)
	}
	if u.DueDate != nil {
		changes["due_date"] = u.DueDate.UTC()
	}
	return changes
}

type TaskFilter struct {
	Status  *Status
	FromDue *time.Time
	ToDue   *time.Time
}
