package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	testCases := []struct {
		input     string
		expected  int
		expectErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"9:30", 0, true},
		{"09-30", 0, true},
		{"", 0, true},
		{"ab:cd", 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseClock(tc.input)
			if tc.expectErr {
				require.ErrorIs(t, err, ErrInvalidTime)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestMinutesBetween(t *testing.T) {
	minutes, err := MinutesBetween("09:15", "11:00")
	require.NoError(t, err)
	assert.Equal(t, 105, minutes)

	_, err = MinutesBetween("11:00", "11:00")
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = MinutesBetween("12:00", "08:00")
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = MinutesBetween("bad", "08:00")
	assert.ErrorIs(t, err, ErrInvalidTime)
}

func TestNewTaskDraft(t *testing.T) {
	now := time.Date(2024, 3, 5, 14, 7, 9, 123456789, time.FixedZone("CET", 3600))

	draft, err := NewTaskDraft(3, "Write report", "09:00", "10:30", now)
	require.NoError(t, err)

	assert.Nil(t, draft.ID)
	require.NotNil(t, draft.EmployeeID)
	assert.Equal(t, 3, *draft.EmployeeID)
	assert.Equal(t, "Write report", draft.DescriptionOrEmpty())
	assert.Equal(t, "2024-03-05T13:07:09.123Z", draft.Date)
	assert.Equal(t, "90", draft.TotalHours)
	assert.Equal(t, "0", draft.RemainingHours)
	assert.Empty(t, draft.EmployeeName)

	_, err = NewTaskDraft(3, "Backwards", "10:30", "09:00", now)
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestTask_Clone(t *testing.T) {
	original := Task{ID: Ptr(7), EmployeeID: Ptr(3), Description: Ptr("a")}
	c := original.Clone()

	*c.ID = 8
	*c.Description = "b"

	assert.Equal(t, 7, *original.ID)
	assert.Equal(t, "a", *original.Description)
	assert.True(t, original.IDEquals(7))
	assert.False(t, Task{}.HasID())
}

func TestState_CloneAndFind(t *testing.T) {
	s := State{Tasks: []Task{{ID: Ptr(1)}, {ID: Ptr(2), Description: Ptr("two")}}, Busy: true}
	c := s.Clone()
	c.Tasks[0].ID = Ptr(99)
	c.Tasks = append(c.Tasks, Task{ID: Ptr(3)})

	assert.Len(t, s.Tasks, 2)
	assert.Equal(t, 1, *s.Tasks[0].ID)

	found, ok := s.FindTask(2)
	require.True(t, ok)
	assert.Equal(t, "two", found.DescriptionOrEmpty())

	_, ok = s.FindTask(5)
	assert.False(t, ok)
	assert.False(t, s.HasError())
}

func TestOperationKind_IsValid(t *testing.T) {
	assert.True(t, OperationDelete.IsValid())
	assert.False(t, OperationKind("archive").IsValid())
}
