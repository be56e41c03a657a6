package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/taskmaster/tasksync/internal/domain/entities"
)

// ErrMissingID is returned when the task service answers a create or
// update with a record that has no id
var ErrMissingID = errors.New("task record has no id")

// TaskGateway performs the network calls against the remote task resource.
// Every failure is reported as an error, normally a *GatewayError.
type TaskGateway interface {
	FetchAll(ctx context.Context) ([]entities.Task, error)
	FetchSummary(ctx context.Context, employeeID, date string) (*TaskSummary, error)
	Create(ctx context.Context, task entities.Task) (*entities.Task, error)
	Update(ctx context.Context, req UpdateTaskRequest) (*entities.Task, error)
	Delete(ctx context.Context, id int) error
}

// UpdateTaskRequest carries the mutable fields of a task
type UpdateTaskRequest struct {
	TaskID      int    `json:"-" validate:"gt=0"`
	Description string `json:"description" validate:"max=2000"`
	StartTime   string `json:"start_time" validate:"required,hhmm"`
	EndTime     string `json:"end_time" validate:"required,hhmm"`
}

// TaskSummary is the response of the per-employee, per-date query
type TaskSummary struct {
	EmployeeID string          `json:"employee_id,omitempty"`
	Date       string          `json:"date,omitempty"`
	Tasks      []entities.Task `json:"tasks"`
}

// ErrorBody is the failure payload of the task service
type ErrorBody struct {
	Error string `json:"error"`
}

// GatewayError describes a failed call to the task service
type GatewayError struct {
	Method     string
	Path       string
	StatusCode int // zero when no response was received
	// Message describes the transport outcome, e.g. "request failed with status code 404".
	Message string
	// Reason is the service-reported reason taken from the failure body, if any.
	Reason string
	Err    error
}

func (e *GatewayError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s %s: %s: %s", e.Method, e.Path, e.Message, e.Reason)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Message)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// HasResponse reports whether the service answered at all
func (e *GatewayError) HasResponse() bool {
	return e.StatusCode != 0
}

// ReasonOf returns the service-reported reason carried by err, or ""
func ReasonOf(err error) string {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr.Reason
	}
	return ""
}

// MessageOf returns the transport message carried by err. Errors that did
// not come from a gateway yield their own text.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr.Message
	}
	return err.Error()
}
