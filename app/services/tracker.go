package services

import (
	"context"
	"log/slog"
	"sync"

	"task-tracker/app/models"
)

// Tracker binds the active session to its task board. Every mutation is
// persisted before the in-memory board is replaced, so memory never runs
// ahead of storage. Calls are serialised.
type Tracker struct {
	mu       sync.Mutex
	sessions *SessionService
	tasks    *TaskService
	logger   *slog.Logger

	username string
	board    []models.Task
}

// NewTracker creates a Tracker with no active user. Call Resume to pick up a
// persisted session.
func NewTracker(sessions *SessionService, tasks *TaskService, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{sessions: sessions, tasks: tasks, logger: logger}
}

// Resume restores the persisted session, if any, and loads its board.
func (t *Tracker) Resume(ctx context.Context) (string, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	username, ok, err := t.sessions.GetActiveUser(ctx)
	if err != nil {
		return "", false, err
	}
	if !ok {
		t.unbind()
		return "", false, nil
	}
	if err := t.bind(ctx, username); err != nil {
		return "", false, err
	}
	return username, true, nil
}

// Login makes username the active user and loads its board. The previous
// board is dropped from memory but stays in storage. On failure both the
// persisted session and the loaded board are left as they were.
func (t *Tracker) Login(ctx context.Context, username string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if username == "" {
		return ErrEmptyUsername
	}
	board, err := t.tasks.Load(ctx, username)
	if err != nil {
		return err
	}
	if err := t.sessions.SetActiveUser(ctx, username); err != nil {
		return err
	}
	t.username = username
	t.board = board
	t.logger.Info("Session started", "user", username, "tasks", len(t.board))
	return nil
}

// Logout clears the session.
func (t *Tracker) Logout(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.sessions.ClearActiveUser(ctx); err != nil {
		return err
	}
	if t.username != "" {
		t.logger.Info("Session ended", "user", t.username)
	}
	t.unbind()
	return nil
}

// ActiveUser returns the username whose board is loaded.
func (t *Tracker) ActiveUser() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.username, t.username != ""
}

// AddTask creates a task. created is false when the title was blank.
func (t *Tracker) AddTask(ctx context.Context, title, description string) (task models.Task, created bool, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.username == "" {
		return models.Task{}, false, ErrNoActiveUser
	}
	next := t.tasks.Create(t.board, title, description)
	if len(next) == len(t.board) {
		return models.Task{}, false, nil
	}
	if err := t.commit(ctx, next); err != nil {
		return models.Task{}, false, err
	}
	return next[0], true, nil
}

// ToggleTask flips completion of the task with id. found is false for unknown ids.
func (t *Tracker) ToggleTask(ctx context.Context, id string) (task models.Task, found bool, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.apply(ctx, id, func() []models.Task {
		return t.tasks.ToggleCompleted(t.board, id)
	})
}

// UpdateTask merges patch into the task with id.
func (t *Tracker) UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (task models.Task, found bool, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.apply(ctx, id, func() []models.Task {
		return t.tasks.Update(t.board, id, patch)
	})
}

// DeleteTask removes the task with id.
func (t *Tracker) DeleteTask(ctx context.Context, id string) (found bool, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.username == "" {
		return false, ErrNoActiveUser
	}
	if _, ok := Find(t.board, id); !ok {
		return false, nil
	}
	if err := t.commit(ctx, t.tasks.Remove(t.board, id)); err != nil {
		return false, err
	}
	return true, nil
}

// Task returns the task with id from the active board.
func (t *Tracker) Task(id string) (models.Task, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.username == "" {
		return models.Task{}, false, ErrNoActiveUser
	}
	task, ok := Find(t.board, id)
	return task, ok, nil
}

// Counts aggregates the active board by completion.
func (t *Tracker) Counts() (models.TaskCounts, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.username == "" {
		return models.TaskCounts{}, ErrNoActiveUser
	}
	return Count(t.board), nil
}

// Tasks returns the filtered board along with counts over the whole board.
func (t *Tracker) Tasks(mode models.FilterMode) ([]models.Task, models.TaskCounts, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.username == "" {
		return nil, models.TaskCounts{}, ErrNoActiveUser
	}
	return Filter(t.board, mode), Count(t.board), nil
}

func (t *Tracker) apply(ctx context.Context, id string, op func() []models.Task) (models.Task, bool, error) {
	if t.username == "" {
		return models.Task{}, false, ErrNoActiveUser
	}
	if _, ok := Find(t.board, id); !ok {
		return models.Task{}, false, nil
	}
	next := op()
	if err := t.commit(ctx, next); err != nil {
		return models.Task{}, false, err
	}
	task, _ := Find(next, id)
	return task, true, nil
}

// commit persists next and only then adopts it as the board.
func (t *Tracker) commit(ctx context.Context, next []models.Task) error {
	if err := t.tasks.Save(ctx, t.username, next); err != nil {
		return err
	}
	t.board = next
	return nil
}

func (t *Tracker) bind(ctx context.Context, username string) error {
	board, err := t.tasks.Load(ctx, username)
	if err != nil {
		return err
	}
	t.username = username
	t.board = board
	return nil
}

func (t *Tracker) unbind() {
	t.username = ""
	t.board = nil
}
