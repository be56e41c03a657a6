package entities

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Common errors
var (
	ErrInvalidTime      = errors.New("invalid time of day")
	ErrInvalidTimeRange = errors.New("end time must be later than start time")
)

// draftDateLayout matches the millisecond UTC timestamps the task service stores
const draftDateLayout = "2006-01-02T15:04:05.000Z"

// Task is a unit of recorded work time for an employee
type Task struct {
	ID             *int    `json:"id,omitempty"`
	EmployeeID     *int    `json:"employee_id,omitempty"`
	Description    *string `json:"description,omitempty"`
	StartTime      string  `json:"start_time"`
	EndTime        string  `json:"end_time"`
	Date           string  `json:"date"`
	TotalHours     string  `json:"total_hours"`
	RemainingHours string  `json:"remaining_hours"`
	EmployeeName   string  `json:"employee_name"`
}

// Ptr returns a pointer to v, for filling optional Task fields
func Ptr[T any](v T) *T {
	return &v
}

// HasID reports whether the remote service assigned an id
func (t Task) HasID() bool {
	return t.ID != nil
}

// IDEquals reports whether the task carries the given id
func (t Task) IDEquals(id int) bool {
	return t.ID != nil && *t.ID == id
}

// Clone returns a copy that shares no pointers with t
func (t Task) Clone() Task {
	c := t
	if t.ID != nil {
		c.ID = Ptr(*t.ID)
	}
	if t.EmployeeID != nil {
		c.EmployeeID = Ptr(*t.EmployeeID)
	}
	if t.Description != nil {
		c.Description = Ptr(*t.Description)
	}
	return c
}

// DescriptionOrEmpty returns the description text, or "" when absent
func (t Task) DescriptionOrEmpty() string {
	if t.Description == nil {
		return ""
	}
	return *t.Description
}

// ParseClock converts an HH:MM time of day into minutes after midnight
func ParseClock(value string) (int, error) {
	if len(value) != 5 || value[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}

	hours, err := strconv.Atoi(value[:2])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}

	minutes, err := strconv.Atoi(value[3:])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}

	return hours*60 + minutes, nil
}

// MinutesBetween returns the length of the start-end range in minutes.
// The end has to be strictly later than the start on the same day.
func MinutesBetween(start, end string) (int, error) {
	from, err := ParseClock(start)
	if err != nil {
		return 0, err
	}

	to, err := ParseClock(end)
	if err != nil {
		return 0, err
	}

	if to <= from {
		return 0, ErrInvalidTimeRange
	}

	return to - from, nil
}

// NewTaskDraft builds a create payload for an employee's time range.
// The draft carries no id; the service assigns one on create.
func NewTaskDraft(employeeID int, description, start, end string, now time.Time) (Task, error) {
	minutes, err := MinutesBetween(start, end)
	if err != nil {
		return Task{}, err
	}

	return Task{
		EmployeeID:     Ptr(employeeID),
		Description:    Ptr(description),
		StartTime:      start,
		EndTime:        end,
		Date:           now.UTC().Format(draftDateLayout),
		TotalHours:     strconv.Itoa(minutes),
		RemainingHours: "0",
		EmployeeName:   "",
	}, nil
}
