package ports

import (
	"context"
	"errors"

	"github.com/taskmaster/tasksync/internal/domain/entities"
)

// ErrTaskNotFound is returned by repositories for unknown ids
var ErrTaskNotFound = errors.New("task not found")

// TaskRepository stores tasks for the reference task service
type TaskRepository interface {
	Create(ctx context.Context, task entities.Task) (entities.Task, error)
	GetByID(ctx context.Context, id int) (entities.Task, error)
	Update(ctx context.Context, task entities.Task) (entities.Task, error)
	Delete(ctx context.Context, id int) error
	List(ctx context.Context) ([]entities.Task, error)
	ListByEmployeeAndDate(ctx context.Context, employeeID int, date string) ([]entities.Task, error)
}
