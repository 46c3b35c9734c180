package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"task-tracker/app/models"
	"task-tracker/app/storage"

	"github.com/google/uuid"
)

// TimestampLayout is the ISO-8601 shape used for createdAt and updatedAt.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

const tasksKeyPrefix = "tasks_"

// TasksKey returns the storage key holding username's task collection.
func TasksKey(username string) string {
	return tasksKeyPrefix + username
}

// TaskService handles task collection operations and their persistence.
// Collection operations never mutate their input slice.
type TaskService struct {
	store  storage.Storage
	now    func() time.Time
	newID  func() string
	logger *slog.Logger
}

// Option configures a TaskService.
type Option func(*TaskService)

// WithClock overrides the wall clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *TaskService) { s.now = now }
}

// WithIDGenerator overrides the task id source.
func WithIDGenerator(newID func() string) Option {
	return func(s *TaskService) { s.newID = newID }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *TaskService) { s.logger = logger }
}

// NewTaskService creates a new instance of TaskService.
func NewTaskService(store storage.Storage, opts ...Option) *TaskService {
	s := &TaskService{
		store:  store,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads username's collection. An absent key yields an empty collection,
// and so does a payload that fails to parse. Storage errors are returned.
func (s *TaskService) Load(ctx context.Context, username string) ([]models.Task, error) {
	key := TasksKey(username)
	payload, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks for %q: %w", username, err)
	}
	if !ok || payload == "" {
		return []models.Task{}, nil
	}

	var tasks []models.Task
	if err := json.Unmarshal([]byte(payload), &tasks); err != nil {
		s.logger.Warn("Discarding unreadable task collection", "key", key, "error", err)
		return []models.Task{}, nil
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// Save overwrites username's collection with tasks.
func (s *TaskService) Save(ctx context.Context, username string, tasks []models.Task) error {
	if tasks == nil {
		tasks = []models.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}
	if err := s.store.Set(ctx, TasksKey(username), string(data)); err != nil {
		return fmt.Errorf("failed to save tasks for %q: %w", username, err)
	}
	return nil
}

// Create prepends a new task. A title that is blank after trimming is
// rejected and tasks is returned unchanged.
func (s *TaskService) Create(tasks []models.Task, title, description string) []models.Task {
	title = strings.TrimSpace(title)
	if title == "" {
		return tasks
	}

	stamp := s.timestamp()
	task := models.Task{
		ID:          s.uniqueID(tasks),
		Title:       title,
		Description: strings.TrimSpace(description),
		Completed:   false,
		CreatedAt:   stamp,
		UpdatedAt:   stamp,
	}

	out := make([]models.Task, 0, len(tasks)+1)
	out = append(out, task)
	return append(out, tasks...)
}

// ToggleCompleted flips the completion flag of the task with id.
// Unknown ids leave tasks unchanged.
func (s *TaskService) ToggleCompleted(tasks []models.Task, id string) []models.Task {
	return s.modify(tasks, id, func(t *models.Task) {
		t.Completed = !t.Completed
	})
}

// Update merges patch over the task with id and refreshes updatedAt even when
// no field changes. The title is not re-validated here; callers that edit
// titles must reject blank ones themselves.
func (s *TaskService) Update(tasks []models.Task, id string, patch models.TaskPatch) []models.Task {
	return s.modify(tasks, id, func(t *models.Task) {
		if patch.Title != nil {
			t.Title = *patch.Title
		}
		if patch.Description != nil {
			t.Description = *patch.Description
		}
		if patch.Completed != nil {
			t.Completed = *patch.Completed
		}
	})
}

// Remove drops the task with id, keeping the order of the rest.
func (s *TaskService) Remove(tasks []models.Task, id string) []models.Task {
	idx := indexOf(tasks, id)
	if idx < 0 {
		return tasks
	}
	out := make([]models.Task, 0, len(tasks)-1)
	out = append(out, tasks[:idx]...)
	return append(out, tasks[idx+1:]...)
}

func (s *TaskService) modify(tasks []models.Task, id string, apply func(*models.Task)) []models.Task {
	idx := indexOf(tasks, id)
	if idx < 0 {
		return tasks
	}
	out := make([]models.Task, len(tasks))
	copy(out, tasks)
	apply(&out[idx])
	out[idx].UpdatedAt = s.timestamp()
	return out
}

func (s *TaskService) timestamp() string {
	return s.now().UTC().Format(TimestampLayout)
}

// uniqueID draws ids until one is unused in tasks.
func (s *TaskService) uniqueID(tasks []models.Task) string {
	for {
		id := s.newID()
		if id != "" && indexOf(tasks, id) < 0 {
			return id
		}
	}
}

// Find returns the task with id.
func Find(tasks []models.Task, id string) (models.Task, bool) {
	idx := indexOf(tasks, id)
	if idx < 0 {
		return models.Task{}, false
	}
	return tasks[idx], true
}

func indexOf(tasks []models.Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}
