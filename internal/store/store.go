package store

import (
	"github.com/IrinaBBB/TaskBoard/internal/domain"
)

// LoadState tells how a Load went. Every state still yields a usable task
// list: an unreadable store reads as empty.
type LoadState string

const (
	StateOK         LoadState = "ok"
	StateMissing    LoadState = "missing"
	StateUnreadable LoadState = "unreadable"
)

// Snapshot is the whole task list as read by one Load.
type Snapshot struct {
	Tasks []domain.Task
	State LoadState
	Err   error
}

// Degraded reports whether the store could not be read and Tasks is a fallback.
func (s Snapshot) Degraded() bool {
	return s.State == StateUnreadable
}

type TaskStore interface {
	Load() Snapshot
	Save(tasks []domain.Task) error
}

func Unreadable(err error) Snapshot {
	return Snapshot{Tasks: []domain.Task{}, State: StateUnreadable, Err: err}
}
