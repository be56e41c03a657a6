package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/tasksync/internal/domain/entities"
)

func task(id int, description string) entities.Task {
	return entities.Task{
		ID:          entities.Ptr(id),
		Description: entities.Ptr(description),
		StartTime:   "09:00",
		EndTime:     "10:00",
	}
}

func ids(tasks []entities.Task) []int {
	out := make([]int, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, *t.ID)
	}
	return out
}

func seeded(tasks ...entities.Task) entities.State {
	return entities.State{Tasks: tasks}
}

func TestReduce_Pending(t *testing.T) {
	prior := entities.State{Tasks: []entities.Task{task(1, "a")}, Error: "old failure"}

	next := Reduce(prior, Pending{})

	assert.True(t, next.Busy)
	assert.Empty(t, next.Error)
	assert.Equal(t, 1, next.InFlight)
	assert.Equal(t, []int{1}, ids(next.Tasks))
	assert.Equal(t, "old failure", prior.Error, "reducer must not modify its input")
}

func TestReduce_FetchReplacesWholesale(t *testing.T) {
	testCases := []struct {
		name   string
		action func([]entities.Task) Action
	}{
		{"fetch all", func(ts []entities.Task) Action { return FetchAllFulfilled{Tasks: ts} }},
		{"fetch summary", func(ts []entities.Task) Action { return FetchSummaryFulfilled{Tasks: ts} }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			prior := Reduce(seeded(task(1, "a"), task(2, "b")), Pending{})
			fetched := []entities.Task{task(5, "e"), task(2, "b from server")}

			next := Reduce(prior, tc.action(fetched))

			assert.False(t, next.Busy)
			assert.Equal(t, 0, next.InFlight)
			assert.Equal(t, []int{5, 2}, ids(next.Tasks))
			assert.Equal(t, "b from server", next.Tasks[1].DescriptionOrEmpty())
		})
	}
}

func TestReduce_FetchNilInstallsEmpty(t *testing.T) {
	next := Reduce(seeded(task(1, "a")), FetchAllFulfilled{})
	require.NotNil(t, next.Tasks)
	assert.Empty(t, next.Tasks)
}

func TestReduce_CreateAppends(t *testing.T) {
	next := Reduce(Reduce(seeded(task(1, "a")), Pending{}), CreateFulfilled{Task: task(4, "d")})

	assert.Equal(t, []int{1, 4}, ids(next.Tasks))
	assert.False(t, next.Busy)
}

func TestReduce_UpdateReplacesInPlace(t *testing.T) {
	prior := Reduce(seeded(task(1, "a"), task(2, "b"), task(3, "c")), Pending{})

	next := Reduce(prior, UpdateFulfilled{Task: task(1, "a prime")})

	assert.Equal(t, []int{1, 2, 3}, ids(next.Tasks))
	assert.Equal(t, "a prime", next.Tasks[0].DescriptionOrEmpty())
	assert.Equal(t, "b", next.Tasks[1].DescriptionOrEmpty())
	assert.Equal(t, "c", next.Tasks[2].DescriptionOrEmpty())
}

func TestReduce_UpdateWithoutMatchIsNoop(t *testing.T) {
	prior := Reduce(seeded(task(1, "a"), task(2, "b")), Pending{})

	next := Reduce(prior, UpdateFulfilled{Task: task(9, "z")})

	assert.Equal(t, []int{1, 2}, ids(next.Tasks))
	assert.False(t, next.Busy)
	assert.Empty(t, next.Error)
}

func TestReduce_DeleteRemovesTarget(t *testing.T) {
	prior := Reduce(seeded(task(1, "a"), task(2, "b"), task(3, "c")), Pending{})

	next := Reduce(prior, DeleteFulfilled{ID: 2})

	assert.Equal(t, []int{1, 3}, ids(next.Tasks))
	assert.Equal(t, []int{1, 2, 3}, ids(prior.Tasks), "reducer must not modify its input")
}

func TestReduce_Rejected(t *testing.T) {
	prior := Reduce(seeded(task(1, "a")), Pending{})

	next := Reduce(prior, Rejected{Message: "task not found"})
	assert.False(t, next.Busy)
	assert.Equal(t, "task not found", next.Error)
	assert.Equal(t, []int{1}, ids(next.Tasks))

	blank := Reduce(prior, Rejected{})
	assert.Equal(t, fallbackRejection, blank.Error)
}

func TestReduce_FulfilledKeepsError(t *testing.T) {
	// B rejects while A is still outstanding; A's later success leaves B's error.
	s := Reduce(entities.State{}, Pending{})
	s = Reduce(s, Pending{})
	s = Reduce(s, Rejected{Message: "Failed to delete task"})
	s = Reduce(s, FetchAllFulfilled{Tasks: []entities.Task{task(1, "a")}})

	assert.Equal(t, "Failed to delete task", s.Error)
	assert.False(t, s.Busy)
	assert.Equal(t, 0, s.InFlight)
}
