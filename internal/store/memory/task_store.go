package memory

import (
	"errors"
	"sync"

	"github.com/IrinaBBB/TaskBoard/internal/domain"
	"github.com/IrinaBBB/TaskBoard/internal/store"
)

var ErrUnreadable = errors.New("task store unreadable")

// TaskStore keeps the task list in process. Loads and saves copy the slice,
// so callers never share backing arrays with the store.
type TaskStore struct {
	mu         sync.RWMutex
	tasks      []domain.Task
	unreadable bool

	loads int
	saves int
}

func New(seed ...domain.Task) *TaskStore {
	return &TaskStore{
		tasks: cloneTasks(seed),
	}
}

func (ts *TaskStore) Load() store.Snapshot {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	ts.loads++

	if ts.unreadable {
		return store.Unreadable(ErrUnreadable)
	}

	return store.Snapshot{Tasks: cloneTasks(ts.tasks), State: store.StateOK}
}

func (ts *TaskStore) Save(tasks []domain.Task) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	ts.saves++
	ts.tasks = cloneTasks(tasks)
	ts.unreadable = false

	return nil
}

// SetUnreadable makes following loads fail until the next Save.
func (ts *TaskStore) SetUnreadable(unreadable bool) {
	ts.mu.Lock()
	ts.unreadable = unreadable
	ts.mu.Unlock()
}

// Tasks returns the stored list without counting as a Load.
func (ts *TaskStore) Tasks() []domain.Task {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	return cloneTasks(ts.tasks)
}

func (ts *TaskStore) Loads() int {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return ts.loads
}

func (ts *TaskStore) Saves() int {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return ts.saves
}

func cloneTasks(tasks []domain.Task) []domain.Task {
	out := make([]domain.Task, len(tasks))
	copy(out, tasks)
	return out
}
