// Package gatewaytest provides a TaskGateway whose calls settle only when a
// test tells them to, so settlement order can be controlled explicitly.
package gatewaytest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/taskmaster/tasksync/internal/domain/entities"
	"github.com/taskmaster/tasksync/internal/ports"
)

// DefaultWait bounds how long Next waits for a call to arrive
const DefaultWait = 2 * time.Second

// Compile-time check to ensure Stub implements TaskGateway
var _ ports.TaskGateway = (*Stub)(nil)

type outcome struct {
	tasks   []entities.Task
	summary *ports.TaskSummary
	task    *entities.Task
	err     error
	panic   interface{}
}

// Call is one outstanding gateway call
type Call struct {
	Kind       entities.OperationKind
	EmployeeID string
	Date       string
	Task       entities.Task
	Update     ports.UpdateTaskRequest
	ID         int

	result chan outcome
}

// ResolveTasks settles a fetch-all call successfully
func (c *Call) ResolveTasks(tasks ...entities.Task) {
	c.result <- outcome{tasks: tasks}
}

// ResolveSummary settles a fetch-summary call successfully
func (c *Call) ResolveSummary(summary ports.TaskSummary) {
	c.result <- outcome{summary: &summary}
}

// ResolveTask settles a create or update call with the service record
func (c *Call) ResolveTask(task entities.Task) {
	c.result <- outcome{task: &task}
}

// Resolve settles a delete call successfully
func (c *Call) Resolve() {
	c.result <- outcome{}
}

// Reject settles the call with err
func (c *Call) Reject(err error) {
	c.result <- outcome{err: err}
}

// Panic makes the gateway method panic with v
func (c *Call) Panic(v interface{}) {
	c.result <- outcome{panic: v}
}

// Stub is a TaskGateway driven by the test. Calls queue without bound
// until taken with Next.
type Stub struct {
	mu    sync.Mutex
	calls []*Call
	ready chan struct{}
}

// NewStub creates a stub gateway
func NewStub() *Stub {
	return &Stub{ready: make(chan struct{}, 1)}
}

// Next returns the next call made against the stub, failing the test if
// none arrives within DefaultWait
func (s *Stub) Next(t testing.TB) *Call {
	t.Helper()
	deadline := time.After(DefaultWait)
	for {
		if c := s.pop(); c != nil {
			return c
		}
		select {
		case <-s.ready:
		case <-deadline:
			t.Fatalf("no gateway call arrived within %s", DefaultWait)
			return nil
		}
	}
}

// Pending reports how many calls were made but not yet taken with Next
func (s *Stub) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *Stub) push(c *Call) {
	s.mu.Lock()
	s.calls = append(s.calls, c)
	s.mu.Unlock()

	select {
	case s.ready <- struct{}{}:
	default:
	}
}

func (s *Stub) pop() *Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		return nil
	}
	c := s.calls[0]
	s.calls = s.calls[1:]
	return c
}

func (s *Stub) await(ctx context.Context, c *Call) (outcome, error) {
	c.result = make(chan outcome, 1)
	s.push(c)

	select {
	case out := <-c.result:
		if out.panic != nil {
			panic(out.panic)
		}
		return out, out.err
	case <-ctx.Done():
		return outcome{}, &ports.GatewayError{Message: ctx.Err().Error(), Err: ctx.Err()}
	}
}

// FetchAll implements ports.TaskGateway
func (s *Stub) FetchAll(ctx context.Context) ([]entities.Task, error) {
	out, err := s.await(ctx, &Call{Kind: entities.OperationFetchAll})
	if err != nil {
		return nil, err
	}
	return out.tasks, nil
}

// FetchSummary implements ports.TaskGateway
func (s *Stub) FetchSummary(ctx context.Context, employeeID, date string) (*ports.TaskSummary, error) {
	out, err := s.await(ctx, &Call{Kind: entities.OperationFetchSummary, EmployeeID: employeeID, Date: date})
	if err != nil {
		return nil, err
	}
	if out.summary == nil {
		return &ports.TaskSummary{EmployeeID: employeeID, Date: date, Tasks: out.tasks}, nil
	}
	return out.summary, nil
}

// Create implements ports.TaskGateway
func (s *Stub) Create(ctx context.Context, task entities.Task) (*entities.Task, error) {
	out, err := s.await(ctx, &Call{Kind: entities.OperationCreate, Task: task})
	if err != nil {
		return nil, err
	}
	return out.task, nil
}

// Update implements ports.TaskGateway
func (s *Stub) Update(ctx context.Context, req ports.UpdateTaskRequest) (*entities.Task, error) {
	out, err := s.await(ctx, &Call{Kind: entities.OperationUpdate, Update: req, ID: req.TaskID})
	if err != nil {
		return nil, err
	}
	return out.task, nil
}

// Delete implements ports.TaskGateway
func (s *Stub) Delete(ctx context.Context, id int) error {
	_, err := s.await(ctx, &Call{Kind: entities.OperationDelete, ID: id})
	return err
}
