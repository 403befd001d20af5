package models

import (
	"fmt"
	"strings"
	"time"
)

// Priority orders tasks; higher rank surfaces first.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityNormal Priority = "NORMAL"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// Priorities lists every priority from lowest to highest rank.
var Priorities = []Priority{PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent}

// ParsePriority decodes a stored or submitted priority name. Matching is case-insensitive.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	if p.Rank() < 0 {
		return "", fmt.Errorf("unknown priority %q", s)
	}
	return p, nil
}

// Rank returns 0..3 for LOW..URGENT and -1 for an unknown value.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 0
	case PriorityNormal:
		return 1
	case PriorityHigh:
		return 2
	case PriorityUrgent:
		return 3
	default:
		return -1
	}
}

func (p Priority) String() string {
	return string(p)
}

// Task is a to-do item.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	Priority    Priority   `json:"priority"`
}

// TaskStatus selects a subset of tasks.
type TaskStatus string

const (
	TaskStatusAll       TaskStatus = ""
	TaskStatusActive    TaskStatus = "active"
	TaskStatusCompleted TaskStatus = "completed"
)

type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required,notblank,max=200"`
	Description string     `json:"description"`
	Priority    string     `json:"priority" validate:"omitempty,priority"`
	DueAt       *time.Time `json:"due_at"`
}

type UpdateTaskRequest struct {
	Title       string     `json:"title" validate:"required,notblank,max=200"`
	Description string     `json:"description"`
	Priority    string     `json:"priority" validate:"omitempty,priority"`
	DueAt       *time.Time `json:"due_at"`
	Completed   bool       `json:"completed"`
}

type SetCompletedRequest struct {
	Completed bool `json:"completed"`
}
