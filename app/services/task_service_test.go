package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"task-tracker/app/models"
	"task-tracker/app/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func ids(tasks []models.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

// sampleTasks builds a mixed collection, newest first.
func sampleTasks(svc *TaskService) []models.Task {
	var tasks []models.Task
	for _, title := range []string{"Water plants", "Call mom", "Pay rent", "Write report"} {
		tasks = svc.Create(tasks, title, "")
	}
	tasks = svc.ToggleCompleted(tasks, tasks[1].ID)
	return svc.ToggleCompleted(tasks, tasks[3].ID)
}

func TestTaskService_Create(t *testing.T) {
	svc := newTestService(storage.NewMemoryStorage())

	tasks := svc.Create(nil, "  Buy milk  ", "  two litres ")
	require.Len(t, tasks, 1)
	task := tasks[0]
	assert.Equal(t, "task-1", task.ID)
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, "two litres", task.Description)
	assert.False(t, task.Completed)
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)
	assert.Equal(t, "2024-05-01T09:00:01.000Z", task.CreatedAt)

	tasks = svc.Create(tasks, "Walk dog", "")
	require.Len(t, tasks, 2)
	assert.Equal(t, "Walk dog", tasks[0].Title)
	assert.Equal(t, "Buy milk", tasks[1].Title)
}

func TestTaskService_CreateRejectsBlankTitle(t *testing.T) {
	svc := newTestService(storage.NewMemoryStorage())
	tasks := svc.Create(nil, "Existing", "")

	for _, title := range []string{"", "   ", "\t\n"} {
		got := svc.Create(tasks, title, "x")
		assert.Equal(t, tasks, got, "title %q", title)
	}
}

func TestTaskService_CreateDoesNotMutateInput(t *testing.T) {
	svc := newTestService(storage.NewMemoryStorage())
	tasks := make([]models.Task, 1, 8)
	tasks[0] = models.Task{ID: "keep", Title: "Keep"}

	_ = svc.Create(tasks, "New", "")
	assert.Equal(t, "keep", tasks[0].ID)
	assert.Len(t, tasks, 1)
}

func TestTaskService_CreateAvoidsIDCollision(t *testing.T) {
	calls := 0
	gen := func() string {
		calls++
		if calls < 3 {
			return "dup"
		}
		return "fresh"
	}
	svc := NewTaskService(storage.NewMemoryStorage(), WithClock(stepClock()), WithIDGenerator(gen))

	tasks := []models.Task{{ID: "dup", Title: "Old"}}
	tasks = svc.Create(tasks, "New", "")
	assert.Equal(t, "fresh", tasks[0].ID)
	assert.Equal(t, 3, calls)
}

func TestTaskService_DefaultIDsAreUUIDs(t *testing.T) {
	svc := NewTaskService(storage.NewMemoryStorage())

	var tasks []models.Task
	for i := 0; i < 50; i++ {
		tasks = svc.Create(tasks, "Same instant", "")
	}
	seen := map[string]bool{}
	for _, task := range tasks {
		_, err := uuid.Parse(task.ID)
		assert.NoError(t, err)
		assert.False(t, seen[task.ID], "duplicate id %s", task.ID)
		seen[task.ID] = true
	}
}

func TestTaskService_ToggleCompleted(t *testing.T) {
	svc := newTestService(storage.NewMemoryStorage())
	original := svc.Create(nil, "Buy milk", "")
	id := original[0].ID

	once := svc.ToggleCompleted(original, id)
	assert.True(t, once[0].Completed)
	assert.False(t, original[0].Completed, "input must not change")
	assert.Greater(t, once[0].UpdatedAt, original[0].UpdatedAt)
	assert.Equal(t, original[0].CreatedAt, once[0].CreatedAt)

	twice := svc.ToggleCompleted(once, id)
	assert.False(t, twice[0].Completed)
	assert.GreaterOrEqual(t, twice[0].UpdatedAt, once[0].UpdatedAt)

	restored := twice[0]
	restored.UpdatedAt = original[0].UpdatedAt
	assert.Equal(t, original[0], restored)
}

func TestTaskService_ToggleUnknownID(t *testing.T) {
	svc := newTestService(storage.NewMemoryStorage())
	tasks := svc.Create(nil, "Buy milk", "")
	assert.Equal(t, tasks, svc.ToggleCompleted(tasks, "nope"))
}

func TestTaskService_Update(t *testing.T) {
	svc := newTestService(storage.NewMemoryStorage())
	tasks := svc.Create(nil, "Old title", "keep me")
	tasks = svc.ToggleCompleted(tasks, tasks[0].ID)
	before := tasks[0]

	t.Run("TitleOnly", func(t *testing.T) {
		got := svc.Update(tasks, before.ID, models.TaskPatch{Title: strPtr("New title")})
		assert.Equal(t, "New title", got[0].Title)
		assert.Equal(t, before.Description, got[0].Description)
		assert.Equal(t, before.Completed, got[0].Completed)
		assert.Equal(t, before.CreatedAt, got[0].CreatedAt)
		assert.NotEqual(t, before.UpdatedAt, got[0].UpdatedAt)
	})

	t.Run("EmptyPatchStillStamps", func(t *testing.T) {
		got := svc.Update(tasks, before.ID, models.TaskPatch{})
		assert.Equal(t, before.Title, got[0].Title)
		assert.NotEqual(t, before.UpdatedAt, got[0].UpdatedAt)
	})

	t.Run("AllFields", func(t *testing.T) {
		got := svc.Update(tasks, before.ID, models.TaskPatch{
			Title:       strPtr("T"),
			Description: strPtr(""),
			Completed:   boolPtr(false),
		})
		assert.Equal(t, "T", got[0].Title)
		assert.Equal(t, "", got[0].Description)
		assert.False(t, got[0].Completed)
	})

	t.Run("BlankTitleNotRevalidated", func(t *testing.T) {
		got := svc.Update(tasks, before.ID, models.TaskPatch{Title: strPtr("")})
		assert.Equal(t, "", got[0].Title)
	})

	t.Run("UnknownID", func(t *testing.T) {
		got := svc.Update(tasks, "nope", models.TaskPatch{Title: strPtr("x")})
		assert.Equal(t, tasks, got)
	})
}

func TestTaskService_Remove(t *testing.T) {
	svc := newTestService(storage.NewMemoryStorage())
	tasks := sampleTasks(svc)
	all := ids(tasks)

	got := svc.Remove(tasks, all[1])
	assert.Equal(t, []string{all[0], all[2], all[3]}, ids(got))
	assert.Equal(t, all, ids(tasks), "input must not change")

	assert.Equal(t, tasks, svc.Remove(tasks, "nope"))

	got = svc.Remove(svc.Remove(got, all[0]), all[2])
	assert.Equal(t, []string{all[3]}, ids(got))
}

func TestTaskService_LoadSaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()
	svc := newTestService(store)

	for _, user := range []string{"alice", "bob", "Alice", "with space", ""} {
		tasks := sampleTasks(svc)
		require.NoError(t, svc.Save(ctx, user, tasks))

		loaded, err := svc.Load(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, tasks, loaded, "user %q", user)
	}
}

func TestTaskService_SaveLayout(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()
	svc := newTestService(store)

	tasks := svc.Create(nil, "Buy milk", "")
	require.NoError(t, svc.Save(ctx, "alice", tasks))

	raw, ok, err := store.Get(ctx, "tasks_alice")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{
		"id": "task-1",
		"title": "Buy milk",
		"description": "",
		"completed": false,
		"createdAt": "2024-05-01T09:00:01.000Z",
		"updatedAt": "2024-05-01T09:00:01.000Z"
	}]`, raw)
	assert.True(t, strings.Index(raw, `"id"`) < strings.Index(raw, `"updatedAt"`))

	require.NoError(t, svc.Save(ctx, "alice", nil))
	raw, _, err = store.Get(ctx, "tasks_alice")
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestTaskService_NamespaceIsolation(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()
	svc := newTestService(store)

	alice := svc.Create(nil, "Alice task", "")
	bob := svc.Create(nil, "Bob task", "")
	require.NoError(t, svc.Save(ctx, "alice", alice))
	require.NoError(t, svc.Save(ctx, "bob", bob))

	loaded, err := svc.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice, loaded)

	loaded, err = svc.Load(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, bob, loaded)

	assert.ElementsMatch(t, []string{"tasks_alice", "tasks_bob"}, store.Keys())
}

func TestTaskService_LoadAbsentOrCorrupt(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()
	svc := newTestService(store)

	for name, payload := range map[string]*string{
		"Absent":  nil,
		"Empty":   strPtr(""),
		"Null":    strPtr("null"),
		"Corrupt": strPtr("{not json"),
		"Object":  strPtr(`{"id":"1"}`),
	} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Remove(ctx, "tasks_carol"))
			if payload != nil {
				require.NoError(t, store.Set(ctx, "tasks_carol", *payload))
			}
			tasks, err := svc.Load(ctx, "carol")
			require.NoError(t, err)
			assert.NotNil(t, tasks)
			assert.Empty(t, tasks)
		})
	}
}

func TestTaskService_StorageFailurePropagates(t *testing.T) {
	ctx := context.Background()
	store := newFailingStorage()
	store.broken = true
	svc := newTestService(store)

	_, err := svc.Load(ctx, "alice")
	assert.ErrorIs(t, err, errStorageDown)
	assert.ErrorIs(t, svc.Save(ctx, "alice", nil), errStorageDown)
}

func TestTaskService_RealClockFormat(t *testing.T) {
	svc := NewTaskService(storage.NewMemoryStorage())
	tasks := svc.Create(nil, "Now", "")

	parsed, err := time.Parse(time.RFC3339Nano, tasks[0].CreatedAt)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), parsed, time.Minute)
	assert.True(t, strings.HasSuffix(tasks[0].CreatedAt, "Z"))
}
