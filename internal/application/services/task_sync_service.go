package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/taskmaster/tasksync/internal/application/store"
	"github.com/taskmaster/tasksync/internal/domain/entities"
	"github.com/taskmaster/tasksync/internal/infrastructure/logger"
	"github.com/taskmaster/tasksync/internal/infrastructure/metrics"
	"github.com/taskmaster/tasksync/internal/infrastructure/validation"
	"github.com/taskmaster/tasksync/internal/ports"
)

// Generic rejection messages, used when no better message is available
const (
	MsgFetchAllFailed = "Something went wrong"
	MsgFetchFailed    = "Failed to fetch tasks"
	MsgCreateFailed   = "Failed to create task"
	MsgUpdateFailed   = "Failed to update task"
	MsgDeleteFailed   = "Failed to delete task"
)

var errGatewayPanic = errors.New("gateway panicked")

// rejection decides the error text recorded for a failed operation.
// Reads report the transport message; writes report the service reason.
type rejection struct {
	generic      string
	preferReason bool
}

func (r rejection) message(err error) string {
	if errors.Is(err, errGatewayPanic) {
		return r.generic
	}

	var msg string
	if r.preferReason {
		msg = ports.ReasonOf(err)
	} else {
		msg = ports.MessageOf(err)
	}

	if msg == "" {
		return r.generic
	}
	return msg
}

var rejections = map[entities.OperationKind]rejection{
	entities.OperationFetchAll:     {generic: MsgFetchAllFailed},
	entities.OperationFetchSummary: {generic: MsgFetchFailed},
	entities.OperationCreate:       {generic: MsgCreateFailed, preferReason: true},
	entities.OperationUpdate:       {generic: MsgUpdateFailed, preferReason: true},
	entities.OperationDelete:       {generic: MsgDeleteFailed, preferReason: true},
}

// TaskSyncService dispatches task operations against the gateway and
// reconciles their outcomes into the store.
//
// Operations are not serialized: each runs its gateway call on its own
// goroutine as soon as it is dispatched. The store's Busy and Error fields
// are shared, so the operation that settles last decides them. This mirrors
// the dashboard's observable behaviour; callers needing exact status use
// the returned *Operation or State.InFlight.
type TaskSyncService struct {
	gateway   ports.TaskGateway
	store     *store.Store
	validator *validation.Validator
	metrics   *metrics.Recorder
	logger    *logger.Logger
	now       func() time.Time
}

// NewTaskSyncService creates a new task sync service. recorder may be nil.
func NewTaskSyncService(gateway ports.TaskGateway, st *store.Store, recorder *metrics.Recorder, logger *logger.Logger) *TaskSyncService {
	return &TaskSyncService{
		gateway:   gateway,
		store:     st,
		validator: validation.New(),
		metrics:   recorder,
		logger:    logger.WithComponent("task_sync"),
		now:       time.Now,
	}
}

// Store returns the store the service reconciles into
func (s *TaskSyncService) Store() *store.Store {
	return s.store
}

// FetchAll replaces the collection with every task known to the service
func (s *TaskSyncService) FetchAll(ctx context.Context) (*Operation, error) {
	return s.dispatch(ctx, entities.OperationFetchAll, func(ctx context.Context) (store.Action, error) {
		tasks, err := s.gateway.FetchAll(ctx)
		if err != nil {
			return nil, err
		}
		return store.FetchAllFulfilled{Tasks: tasks}, nil
	}), nil
}

// FetchByEmployeeAndDate replaces the collection with one employee's tasks for a date
func (s *TaskSyncService) FetchByEmployeeAndDate(ctx context.Context, employeeID, date string) (*Operation, error) {
	if err := s.validator.Var(employeeID, "required"); err != nil {
		return nil, fmt.Errorf("employee id: %w", err)
	}
	if err := s.validator.Var(date, "required"); err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}

	return s.dispatch(ctx, entities.OperationFetchSummary, func(ctx context.Context) (store.Action, error) {
		summary, err := s.gateway.FetchSummary(ctx, employeeID, date)
		if err != nil {
			return nil, err
		}
		if summary == nil {
			return store.FetchSummaryFulfilled{}, nil
		}
		return store.FetchSummaryFulfilled{Tasks: summary.Tasks}, nil
	}), nil
}

// Create sends task to the service and appends the record it returns.
// Any id already set on task is dropped before the call.
func (s *TaskSyncService) Create(ctx context.Context, task entities.Task) (*Operation, error) {
	if err := s.validator.ValidateDraft(task); err != nil {
		return nil, err
	}

	payload := task.Clone()
	payload.ID = nil

	return s.dispatch(ctx, entities.OperationCreate, func(ctx context.Context) (store.Action, error) {
		created, err := s.gateway.Create(ctx, payload)
		if err != nil {
			return nil, err
		}
		if created == nil || !created.HasID() {
			return nil, ports.ErrMissingID
		}
		return store.CreateFulfilled{Task: *created}, nil
	}), nil
}

// Update sends the mutable fields of a task and replaces the local record
// matching the id of the returned one
func (s *TaskSyncService) Update(ctx context.Context, req ports.UpdateTaskRequest) (*Operation, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := s.validator.TimeRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	return s.dispatch(ctx, entities.OperationUpdate, func(ctx context.Context) (store.Action, error) {
		updated, err := s.gateway.Update(ctx, req)
		if err != nil {
			return nil, err
		}
		if updated == nil || !updated.HasID() {
			return nil, ports.ErrMissingID
		}
		return store.UpdateFulfilled{Task: *updated}, nil
	}), nil
}

// Delete removes the task remotely and then locally
func (s *TaskSyncService) Delete(ctx context.Context, id int) (*Operation, error) {
	if err := s.validator.ValidateID(id); err != nil {
		return nil, err
	}

	return s.dispatch(ctx, entities.OperationDelete, func(ctx context.Context) (store.Action, error) {
		if err := s.gateway.Delete(ctx, id); err != nil {
			return nil, err
		}
		return store.DeleteFulfilled{ID: id}, nil
	}), nil
}

type gatewayCall func(ctx context.Context) (store.Action, error)

// dispatch applies the pending transition before returning and settles the
// operation from a new goroutine. The call runs detached from ctx
// cancellation: a dispatched operation always settles.
func (s *TaskSyncService) dispatch(ctx context.Context, kind entities.OperationKind, call gatewayCall) *Operation {
	op := newOperation(kind, s.now())
	log := s.logger.WithOperation(op.ID.String(), string(kind))

	s.store.Dispatch(store.Pending{})
	if s.metrics != nil {
		s.metrics.Dispatched()
	}
	log.Debugw("Operation dispatched")

	go s.settle(context.WithoutCancel(ctx), op, call, log)

	return op
}

func (s *TaskSyncService) settle(ctx context.Context, op *Operation, call gatewayCall, log *logger.Logger) {
	action, err := invoke(ctx, call)
	elapsed := s.now().Sub(op.DispatchedAt)

	if err != nil {
		msg := rejections[op.Kind].message(err)
		s.store.Dispatch(store.Rejected{Message: msg})
		s.record(op.Kind, metrics.OutcomeRejected, elapsed)

		log.Warnw("Operation rejected", "error", err.Error(), "message", msg, "duration_ms", elapsed.Milliseconds())
		op.settle(&RejectedError{Kind: op.Kind, Message: msg, Err: err})
		return
	}

	s.store.Dispatch(action)
	s.record(op.Kind, metrics.OutcomeFulfilled, elapsed)

	log.Infow("Operation fulfilled", "duration_ms", elapsed.Milliseconds())
	op.settle(nil)
}

func (s *TaskSyncService) record(kind entities.OperationKind, outcome string, elapsed time.Duration) {
	if s.metrics != nil {
		s.metrics.Settled(string(kind), outcome, elapsed)
	}
}

// invoke runs call, turning a panic into an error
func invoke(ctx context.Context, call gatewayCall) (action store.Action, err error) {
	defer func() {
		if r := recover(); r != nil {
			action = nil
			err = fmt.Errorf("%w: %v", errGatewayPanic, r)
		}
	}()
	return call(ctx)
}
