// Package file persists the task list as a single JSON array on disk.
package file

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/IrinaBBB/TaskBoard/internal/domain"
	"github.com/IrinaBBB/TaskBoard/internal/store"
)

const schemaURL = "taskboard://tasks.schema.json"

//go:embed schema.json
var schemaJSON []byte

type record struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// TaskStore reads the whole file on every Load and replaces it on every Save.
type TaskStore struct {
	path   string
	schema *jsonschema.Schema
}

func New(path string) (*TaskStore, error) {
	if path == "" {
		return nil, errors.New("tasks file path is empty")
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add tasks schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile tasks schema: %w", err)
	}

	return &TaskStore{path: path, schema: schema}, nil
}

func (ts *TaskStore) Path() string {
	return ts.path
}

// Load never fails: a missing file is an empty store and an unreadable or
// invalid one reads as empty with the cause in the snapshot.
func (ts *TaskStore) Load() store.Snapshot {
	data, err := os.ReadFile(ts.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return store.Snapshot{Tasks: []domain.Task{}, State: store.StateMissing}
		}
		return store.Unreadable(fmt.Errorf("read tasks file: %w", err))
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return store.Unreadable(fmt.Errorf("parse tasks file: %w", err))
	}
	if err := ts.schema.Validate(doc); err != nil {
		return store.Unreadable(fmt.Errorf("validate tasks file: %w", err))
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return store.Unreadable(fmt.Errorf("decode tasks file: %w", err))
	}

	tasks := make([]domain.Task, 0, len(records))
	for _, r := range records {
		tasks = append(tasks, domain.Task{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
		})
	}

	return store.Snapshot{Tasks: tasks, State: store.StateOK}
}

// Save writes to a temp file next to the target and renames it over the
// target, so readers see either the old or the new list.
func (ts *TaskStore) Save(tasks []domain.Task) error {
	records := make([]record, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, record{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
		})
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(ts.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create tasks dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tasks-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, ts.path); err != nil {
		return fmt.Errorf("replace tasks file: %w", err)
	}

	return nil
}
