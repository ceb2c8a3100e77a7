package domain

import (
	"errors"
	"fmt"
	"time"

	accountdomain "github.com/pmorel/tasklane/internal/account/domain"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

var ErrInvalidPriority = errors.New("invalid priority")

func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
}

type Task struct {
	ID          int64
	Title       string
	Description string
	Completed   bool
	DueDate     *time.Time
	Priority    Priority
	CreatedAt   time.Time
	UpdatedAt   time.Time
	OwnerID     accountdomain.ID
}

// Changes carries a partial update: nil fields keep their stored values.
type Changes struct {
	Title       *string
	Description *string
	Completed   *bool
	DueDate     *time.Time
	Priority    *Priority
}

var ErrInvalidDueDate = errors.New("invalid due date")

var dueDateLayouts = []string{time.RFC3339, "2006-01-02"}

// ParseDueDate accepts RFC 3339 timestamps or bare dates.
func ParseDueDate(s string) (time.Time, error) {
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDueDate, s)
}
