package console

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/tasksync/internal/adapters/gateway/gatewaytest"
	"github.com/taskmaster/tasksync/internal/application/services"
	"github.com/taskmaster/tasksync/internal/application/store"
	"github.com/taskmaster/tasksync/internal/domain/entities"
	"github.com/taskmaster/tasksync/internal/infrastructure/logger"
	"github.com/taskmaster/tasksync/internal/ports"
)

func seededTask(id int, description string) entities.Task {
	return entities.Task{
		ID:          entities.Ptr(id),
		EmployeeID:  entities.Ptr(3),
		Description: entities.Ptr(description),
		StartTime:   "09:00",
		EndTime:     "10:00",
		TotalHours:  "60",
	}
}

// startConsole runs a console over a stub gateway, feeding it input
func startConsole(t *testing.T, input string, seed ...entities.Task) (*gatewaytest.Stub, *bytes.Buffer, <-chan error) {
	t.Helper()
	stub := gatewaytest.NewStub()
	svc := services.NewTaskSyncService(stub, store.New(store.WithTasks(seed...)), nil, logger.NewNop())

	out := &bytes.Buffer{}
	c := New(svc, "http://localhost:3001/")
	c.In = strings.NewReader(input)
	c.Out = out
	c.now = func() time.Time { return time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC) }

	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background()) }()
	return stub, out, done
}

func finished(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(gatewaytest.DefaultWait):
		t.Fatal("console did not exit")
	}
}

func TestConsole_DeletePrintsTransitions(t *testing.T) {
	stub, out, done := startConsole(t, "delete 1\nwait\nstate\nexit\n", seededTask(1, "a"), seededTask(2, "b"))

	call := stub.Next(t)
	assert.Equal(t, entities.OperationDelete, call.Kind)
	assert.Equal(t, 1, call.ID)
	call.Resolve()

	finished(t, done)

	text := out.String()
	assert.Contains(t, text, "[busy] 2 tasks, 1 in flight")
	assert.Contains(t, text, "[idle] 1 tasks, 0 in flight")
	assert.Contains(t, text, "1 operations settled")
	assert.Contains(t, text, "#2  emp 3  09:00-10:00  60min  b")
}

func TestConsole_RejectionShowsServiceReason(t *testing.T) {
	stub, out, done := startConsole(t, "delete 7\nwait\nexit\n", seededTask(1, "a"))

	stub.Next(t).Reject(&ports.GatewayError{StatusCode: 404, Message: "request failed with status code 404", Reason: "Task not found"})

	finished(t, done)

	text := out.String()
	assert.Contains(t, text, "[idle] 1 tasks, 0 in flight, error: Task not found")
	assert.Contains(t, text, "error: Task not found\n")
}

func TestConsole_CreateBuildsDraft(t *testing.T) {
	stub, out, done := startConsole(t, "create 3 09:00 10:30 write the report\nwait\nexit\n")

	call := stub.Next(t)
	require.Equal(t, entities.OperationCreate, call.Kind)
	assert.Nil(t, call.Task.ID)
	assert.Equal(t, "write the report", call.Task.DescriptionOrEmpty())
	assert.Equal(t, "90", call.Task.TotalHours)
	assert.Equal(t, "2024-03-05T12:00:00.000Z", call.Task.Date)

	created := call.Task
	created.ID = entities.Ptr(11)
	call.ResolveTask(created)

	finished(t, done)
	assert.Contains(t, out.String(), "[idle] 1 tasks, 0 in flight")
}

func TestConsole_InvalidInputDispatchesNothing(t *testing.T) {
	stub, out, done := startConsole(t, "update 1 10:00 09:00 backwards\ndelete abc\nsummary 3\nfrobnicate\nexit\n", seededTask(1, "a"))

	finished(t, done)
	assert.Equal(t, 0, stub.Pending())

	text := out.String()
	assert.Contains(t, text, "error: invalid input")
	assert.Contains(t, text, `error: invalid task id "abc"`)
	assert.Contains(t, text, "usage: summary <employee-id> <date>")
	assert.Contains(t, text, "unknown command, type help")
	assert.NotContains(t, text, "[busy]")
}

func TestConsole_EndOfInputExits(t *testing.T) {
	_, out, done := startConsole(t, "help\n")

	finished(t, done)
	assert.Contains(t, out.String(), "Commands:")
}
