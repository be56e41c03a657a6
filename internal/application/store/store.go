package store

import (
	"sort"
	"sync"

	"github.com/taskmaster/tasksync/internal/domain/entities"
)

// Listener receives a snapshot after every transition
type Listener func(entities.State)

// Store holds the synchronized task collection. The only way to change it
// is Dispatch, which runs the reducer under the store lock.
type Store struct {
	mu    sync.Mutex
	state entities.State
	seq   uint64 // transitions applied, guarded by mu

	// delivered counts transitions whose listeners have run; deliveries
	// wait their turn on turn so listeners see transitions in order.
	deliverMu sync.Mutex
	turn      *sync.Cond
	delivered uint64

	listenersMu  sync.Mutex
	listeners    map[int]Listener
	nextListener int
}

// Option configures a Store at construction time
type Option func(*Store)

// WithTasks seeds the collection
func WithTasks(tasks ...entities.Task) Option {
	return func(s *Store) {
		s.state.Tasks = cloneTasks(tasks)
	}
}

// New creates an idle store with an empty collection
func New(opts ...Option) *Store {
	s := &Store{
		state:     entities.State{Tasks: []entities.Task{}},
		listeners: make(map[int]Listener),
	}
	s.turn = sync.NewCond(&s.deliverMu)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a deep copy of the current state
func (s *Store) Snapshot() entities.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Dispatch applies a to the state and returns the resulting snapshot.
// Listeners are called before Dispatch returns, in transition order, and
// may read Snapshot but must not dispatch.
func (s *Store) Dispatch(a Action) entities.State {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	snapshot := s.state.Clone()
	seq := s.seq
	s.seq++
	s.mu.Unlock()

	s.deliverMu.Lock()
	for s.delivered != seq {
		s.turn.Wait()
	}
	s.deliverMu.Unlock()

	defer func() {
		s.deliverMu.Lock()
		s.delivered++
		s.turn.Broadcast()
		s.deliverMu.Unlock()
	}()

	for _, l := range s.currentListeners() {
		l(snapshot.Clone())
	}

	return snapshot
}

// Subscribe registers l and returns a function that removes it
func (s *Store) Subscribe(l Listener) func() {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	id := s.nextListener
	s.nextListener++
	s.listeners[id] = l

	return func() {
		s.listenersMu.Lock()
		defer s.listenersMu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) currentListeners() []Listener {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]Listener, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.listeners[id])
	}
	return out
}
