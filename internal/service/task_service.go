package service

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/IrinaBBB/TaskBoard/internal/domain"
	"github.com/IrinaBBB/TaskBoard/internal/logging"
	"github.com/IrinaBBB/TaskBoard/internal/store"
)

type TaskStore interface {
	Load() store.Snapshot
	Save(tasks []domain.Task) error
}

// TaskPatch carries a partial update. Empty fields are left unchanged.
type TaskPatch struct {
	Title       string
	Description string
}

type TaskService struct {
	store  TaskStore
	logger *log.Logger

	// serializes load-modify-save so concurrent mutations cannot drop writes
	writeMu sync.Mutex
}

func New(store TaskStore, logger *log.Logger) (*TaskService, error) {
	if store == nil {
		return nil, ErrStoreNil
	}
	if logger == nil {
		logger = logging.Discard()
	}

	return &TaskService{store: store, logger: logger}, nil
}

func (s *TaskService) ListTasks() []domain.Task {
	return s.load()
}

func (s *TaskService) GetTask(id int64) (domain.Task, error) {
	tasks := s.load()

	i := indexOf(tasks, id)
	if i < 0 {
		return domain.Task{}, ErrNotFound
	}
	return tasks[i], nil
}

func (s *TaskService) CreateTask(title, description string) (domain.Task, error) {
	// presence only: whitespace counts as a value
	if title == "" || description == "" {
		return domain.Task{}, ErrInvalidInput
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tasks := s.load()

	task := domain.Task{
		ID:          nextID(tasks),
		Title:       title,
		Description: description,
	}

	if err := s.save(append(tasks, task)); err != nil {
		return domain.Task{}, err
	}

	s.logger.Debug("task created", "id", task.ID)
	return task, nil
}

func (s *TaskService) UpdateTask(id int64, patch TaskPatch) (domain.Task, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tasks := s.load()

	i := indexOf(tasks, id)
	if i < 0 {
		return domain.Task{}, ErrNotFound
	}

	if patch.Title != "" {
		tasks[i].Title = patch.Title
	}
	if patch.Description != "" {
		tasks[i].Description = patch.Description
	}

	if err := s.save(tasks); err != nil {
		return domain.Task{}, err
	}

	s.logger.Debug("task updated", "id", id)
	return tasks[i], nil
}

func (s *TaskService) DeleteTask(id int64) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tasks := s.load()

	i := indexOf(tasks, id)
	if i < 0 {
		return ErrNotFound
	}

	remaining := make([]domain.Task, 0, len(tasks)-1)
	remaining = append(remaining, tasks[:i]...)
	remaining = append(remaining, tasks[i+1:]...)

	if err := s.save(remaining); err != nil {
		return err
	}

	s.logger.Debug("task deleted", "id", id)
	return nil
}

func (s *TaskService) load() []domain.Task {
	snap := s.store.Load()
	if snap.Degraded() {
		s.logger.Warn("task store unreadable, using empty list", "state", snap.State, "err", snap.Err)
	}
	if snap.Tasks == nil {
		return []domain.Task{}
	}
	return snap.Tasks
}

func (s *TaskService) save(tasks []domain.Task) error {
	if err := s.store.Save(tasks); err != nil {
		s.logger.Error("saving tasks failed", "err", err)
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

// nextID is one past the highest id, or 1 for an empty list.
func nextID(tasks []domain.Task) int64 {
	var highest int64
	for _, t := range tasks {
		if t.ID > highest {
			highest = t.ID
		}
	}
	return highest + 1
}

func indexOf(tasks []domain.Task, id int64) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
