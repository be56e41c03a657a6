package store

import (
	"github.com/taskmaster/tasksync/internal/domain/entities"
)

// fallbackRejection is used when a rejection arrives without a message;
// a rejected state never carries an empty error.
const fallbackRejection = "Something went wrong"

// Action is a state transition understood by Reduce
type Action interface {
	action()
}

// Pending marks the dispatch of any operation
type Pending struct{}

// FetchAllFulfilled installs the full collection returned by the service
type FetchAllFulfilled struct {
	Tasks []entities.Task
}

// FetchSummaryFulfilled installs the collection of one employee and date
type FetchSummaryFulfilled struct {
	Tasks []entities.Task
}

// CreateFulfilled appends the record created by the service
type CreateFulfilled struct {
	Task entities.Task
}

// UpdateFulfilled replaces the record whose id matches the returned one
type UpdateFulfilled struct {
	Task entities.Task
}

// DeleteFulfilled removes the records carrying ID
type DeleteFulfilled struct {
	ID int
}

// Rejected records the failure message of an operation
type Rejected struct {
	Message string
}

func (Pending) action()               {}
func (FetchAllFulfilled) action()     {}
func (FetchSummaryFulfilled) action() {}
func (CreateFulfilled) action()       {}
func (UpdateFulfilled) action()       {}
func (DeleteFulfilled) action()       {}
func (Rejected) action()              {}

// Reduce returns the state that follows s under a. It never modifies s.
//
// Reads replace the collection wholesale; writes reconcile a single record
// by id. Fulfilled transitions leave Error alone: it is cleared only when
// an operation starts.
func Reduce(s entities.State, a Action) entities.State {
	next := s.Clone()

	switch act := a.(type) {
	case Pending:
		next.Busy = true
		next.Error = ""
		next.InFlight++

	case FetchAllFulfilled:
		settle(&next)
		next.Tasks = cloneTasks(act.Tasks)

	case FetchSummaryFulfilled:
		settle(&next)
		next.Tasks = cloneTasks(act.Tasks)

	case CreateFulfilled:
		settle(&next)
		next.Tasks = append(next.Tasks, act.Task.Clone())

	case UpdateFulfilled:
		settle(&next)
		if act.Task.ID == nil {
			break
		}
		for i := range next.Tasks {
			if next.Tasks[i].IDEquals(*act.Task.ID) {
				next.Tasks[i] = act.Task.Clone()
			}
		}

	case DeleteFulfilled:
		settle(&next)
		kept := next.Tasks[:0]
		for _, t := range next.Tasks {
			if !t.IDEquals(act.ID) {
				kept = append(kept, t)
			}
		}
		next.Tasks = kept

	case Rejected:
		settle(&next)
		next.Error = act.Message
		if next.Error == "" {
			next.Error = fallbackRejection
		}
	}

	return next
}

func settle(s *entities.State) {
	s.Busy = false
	if s.InFlight > 0 {
		s.InFlight--
	}
}

func cloneTasks(tasks []entities.Task) []entities.Task {
	out := make([]entities.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
