package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/taskmaster/tasksync/internal/domain/entities"
)

// ErrInvalidInput marks caller-side validation failures
var ErrInvalidInput = errors.New("invalid input")

// Validator wraps go-playground/validator with the task rules registered.
// It satisfies echo.Validator.
type Validator struct {
	validator *validator.Validate
}

// New creates a validator with the hhmm rule registered
func New() *Validator {
	v := validator.New()
	// RegisterValidation only fails for empty tags or baked-in names
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		_, err := entities.ParseClock(fl.Field().String())
		return err == nil
	})
	return &Validator{validator: v}
}

// Validate validates structs
func (v *Validator) Validate(i interface{}) error {
	if err := v.validator.Struct(i); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// Var validates a single value against tag
func (v *Validator) Var(field interface{}, tag string) error {
	if err := v.validator.Var(field, tag); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// TimeRange checks both ends are HH:MM and end is later than start
func (v *Validator) TimeRange(start, end string) error {
	if _, err := entities.MinutesBetween(start, end); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// ValidateDraft checks a create payload
func (v *Validator) ValidateDraft(task entities.Task) error {
	if task.Description != nil {
		if err := v.Var(*task.Description, "max=2000"); err != nil {
			return err
		}
	}
	return v.TimeRange(task.StartTime, task.EndTime)
}

// ValidateID checks a task identifier
func (v *Validator) ValidateID(id int) error {
	return v.Var(id, "gt=0")
}
