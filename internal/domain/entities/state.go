package entities

// OperationKind names one of the five task sync operations
type OperationKind string

const (
	OperationFetchAll     OperationKind = "fetch_all"
	OperationFetchSummary OperationKind = "fetch_summary"
	OperationCreate       OperationKind = "create"
	OperationUpdate       OperationKind = "update"
	OperationDelete       OperationKind = "delete"
)

// IsValid reports whether k is a known operation
func (k OperationKind) IsValid() bool {
	switch k {
	case OperationFetchAll, OperationFetchSummary, OperationCreate, OperationUpdate, OperationDelete:
		return true
	default:
		return false
	}
}

// State is a snapshot of the synchronized task collection.
//
// Busy and Error are shared by every outstanding operation: the operation
// that settles last decides both, whatever the dispatch order was. Busy can
// therefore read false while another operation is still outstanding;
// InFlight always holds the exact number of unsettled operations.
type State struct {
	Tasks    []Task `json:"tasks"`
	Busy     bool   `json:"busy"`
	Error    string `json:"error,omitempty"`
	InFlight int    `json:"in_flight"`
}

// HasError reports whether the last settled operation was rejected
// and no operation has started since
func (s State) HasError() bool {
	return s.Error != ""
}

// Clone returns a deep copy of the snapshot
func (s State) Clone() State {
	c := s
	c.Tasks = make([]Task, len(s.Tasks))
	for i, t := range s.Tasks {
		c.Tasks[i] = t.Clone()
	}
	return c
}

// FindTask returns the first task carrying id
func (s State) FindTask(id int) (Task, bool) {
	for _, t := range s.Tasks {
		if t.IDEquals(id) {
			return t, true
		}
	}
	return Task{}, false
}
