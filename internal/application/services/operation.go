package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taskmaster/tasksync/internal/domain/entities"
)

// RejectedError is the settlement error of a rejected operation
type RejectedError struct {
	Kind entities.OperationKind
	// Message is the text recorded in the store's Error field.
	Message string
	Err     error
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s rejected: %s", e.Kind, e.Message)
}

func (e *RejectedError) Unwrap() error {
	return e.Err
}

// Operation tracks one dispatched call from pending to settlement.
// It is the per-operation status; the store only keeps shared flags.
type Operation struct {
	ID           uuid.UUID
	Kind         entities.OperationKind
	DispatchedAt time.Time

	done chan struct{}
	err  error
}

func newOperation(kind entities.OperationKind, now time.Time) *Operation {
	return &Operation{
		ID:           uuid.New(),
		Kind:         kind,
		DispatchedAt: now,
		done:         make(chan struct{}),
	}
}

// Done is closed once the operation has settled and the store reflects it
func (o *Operation) Done() <-chan struct{} {
	return o.done
}

// Settled reports whether the operation has settled
func (o *Operation) Settled() bool {
	select {
	case <-o.done:
		return true
	default:
		return false
	}
}

// Err returns the *RejectedError of a rejected operation. It is nil while
// the operation is pending and after it was fulfilled.
func (o *Operation) Err() error {
	select {
	case <-o.done:
		return o.err
	default:
		return nil
	}
}

// Wait blocks until settlement or until ctx is done. Giving up waiting does
// not cancel the operation.
func (o *Operation) Wait(ctx context.Context) error {
	select {
	case <-o.done:
		return o.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (o *Operation) settle(err error) {
	o.err = err
	close(o.done)
}
