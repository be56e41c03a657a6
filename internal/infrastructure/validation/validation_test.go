package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/tasksync/internal/domain/entities"
)

type clockWindow struct {
	From string `validate:"required,hhmm"`
	To   string `validate:"omitempty,hhmm"`
}

func TestValidator_Struct(t *testing.T) {
	v := New()

	require.NoError(t, v.Validate(clockWindow{From: "08:30"}))
	require.NoError(t, v.Validate(clockWindow{From: "08:30", To: "17:00"}))

	err := v.Validate(clockWindow{From: "8:30"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorContains(t, err, "hhmm")

	assert.ErrorIs(t, v.Validate(clockWindow{}), ErrInvalidInput)
}

func TestValidator_TimeRange(t *testing.T) {
	v := New()

	assert.NoError(t, v.TimeRange("09:00", "09:01"))
	assert.ErrorIs(t, v.TimeRange("09:00", "09:00"), ErrInvalidInput)
	assert.ErrorContains(t, v.TimeRange("10:00", "09:00"), "end time must be later than start time")
	assert.ErrorIs(t, v.TimeRange("", "09:00"), ErrInvalidInput)
}

func TestValidator_ValidateDraft(t *testing.T) {
	v := New()

	ok := entities.Task{Description: entities.Ptr("Review"), StartTime: "13:00", EndTime: "14:15"}
	assert.NoError(t, v.ValidateDraft(ok))

	noDescription := entities.Task{StartTime: "13:00", EndTime: "14:15"}
	assert.NoError(t, v.ValidateDraft(noDescription))

	backwards := entities.Task{StartTime: "14:15", EndTime: "13:00"}
	assert.ErrorIs(t, v.ValidateDraft(backwards), ErrInvalidInput)
}

func TestValidator_ValidateID(t *testing.T) {
	v := New()

	assert.NoError(t, v.ValidateID(1))
	assert.ErrorIs(t, v.ValidateID(0), ErrInvalidInput)
	assert.ErrorIs(t, v.ValidateID(-4), ErrInvalidInput)
}
