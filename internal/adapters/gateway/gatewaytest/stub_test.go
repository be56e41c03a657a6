package gatewaytest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/tasksync/internal/domain/entities"
)

func TestStub_QueuesCallsWithoutBound(t *testing.T) {
	stub := NewStub()
	const n = 200

	var wg sync.WaitGroup
	for i := 1; i <= n; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			assert.NoError(t, stub.Delete(context.WithoutCancel(context.Background()), id))
		}(i)
	}

	require.Eventually(t, func() bool { return stub.Pending() == n }, DefaultWait, time.Millisecond)

	seen := make(map[int]bool, n)
	for i := 0; i < n; i++ {
		call := stub.Next(t)
		assert.Equal(t, entities.OperationDelete, call.Kind)
		seen[call.ID] = true
		call.Resolve()
	}
	wg.Wait()

	assert.Len(t, seen, n)
	assert.Equal(t, 0, stub.Pending())
}

func TestStub_NextWaitsForLateCall(t *testing.T) {
	stub := NewStub()

	go func() {
		time.Sleep(20 * time.Millisecond)
		_, _ = stub.FetchAll(context.Background())
	}()

	call := stub.Next(t)
	assert.Equal(t, entities.OperationFetchAll, call.Kind)
	call.ResolveTasks()
}
