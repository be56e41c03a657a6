package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/taskmaster/tasksync/internal/domain/entities"
	"github.com/taskmaster/tasksync/internal/ports"
)

// Compile-time check to ensure TaskRepositoryImpl implements TaskRepository
var _ ports.TaskRepository = (*TaskRepositoryImpl)(nil)

// TaskRepositoryImpl keeps the reference service's tasks in memory, in
// insertion order
type TaskRepositoryImpl struct {
	mu     sync.RWMutex
	tasks  []entities.Task
	nextID int
}

// NewTaskRepository creates a new task repository seeded with tasks.
// Seeded tasks without an id are assigned one.
func NewTaskRepository(seed ...entities.Task) *TaskRepositoryImpl {
	r := &TaskRepositoryImpl{nextID: 1}
	for _, t := range seed {
		if t.ID != nil && *t.ID >= r.nextID {
			r.nextID = *t.ID + 1
		}
	}
	for _, t := range seed {
		t = t.Clone()
		if t.ID == nil {
			t.ID = entities.Ptr(r.nextID)
			r.nextID++
		}
		r.tasks = append(r.tasks, t)
	}
	return r
}

// Create stores task under a fresh id, ignoring any id it carries
func (r *TaskRepositoryImpl) Create(ctx context.Context, task entities.Task) (entities.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := task.Clone()
	created.ID = entities.Ptr(r.nextID)
	r.nextID++

	r.tasks = append(r.tasks, created)
	return created.Clone(), nil
}

// GetByID returns the task with id
func (r *TaskRepositoryImpl) GetByID(ctx context.Context, id int) (entities.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return entities.Task{}, fmt.Errorf("task %d: %w", id, ports.ErrTaskNotFound)
	}
	return r.tasks[i].Clone(), nil
}

// Update replaces the stored task carrying task's id
func (r *TaskRepositoryImpl) Update(ctx context.Context, task entities.Task) (entities.Task, error) {
	if task.ID == nil {
		return entities.Task{}, ports.ErrMissingID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(*task.ID)
	if i < 0 {
		return entities.Task{}, fmt.Errorf("task %d: %w", *task.ID, ports.ErrTaskNotFound)
	}
	r.tasks[i] = task.Clone()
	return task.Clone(), nil
}

// Delete removes the task with id
func (r *TaskRepositoryImpl) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return fmt.Errorf("task %d: %w", id, ports.ErrTaskNotFound)
	}
	r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
	return nil
}

// List returns every task
func (r *TaskRepositoryImpl) List(ctx context.Context) ([]entities.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entities.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, t.Clone())
	}
	return out, nil
}

// ListByEmployeeAndDate returns an employee's tasks whose date falls on date.
// Stored dates may be full timestamps, so date is matched as a prefix.
func (r *TaskRepositoryImpl) ListByEmployeeAndDate(ctx context.Context, employeeID int, date string) ([]entities.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entities.Task, 0)
	for _, t := range r.tasks {
		if t.EmployeeID == nil || *t.EmployeeID != employeeID {
			continue
		}
		if !strings.HasPrefix(t.Date, date) {
			continue
		}
		out = append(out, t.Clone())
	}
	return out, nil
}

func (r *TaskRepositoryImpl) indexOf(id int) int {
	for i, t := range r.tasks {
		if t.IDEquals(id) {
			return i
		}
	}
	return -1
}
