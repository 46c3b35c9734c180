package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"task-tracker/app/storage"
)

var errStorageDown = errors.New("storage down")

// stepClock returns a clock that advances by one second per call.
func stepClock() func() time.Time {
	current := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

// sequentialIDs yields task-1, task-2, ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("task-%d", n)
	}
}

func newTestService(store storage.Storage) *TaskService {
	return NewTaskService(store, WithClock(stepClock()), WithIDGenerator(sequentialIDs()))
}

// failingStorage fails every call once broken is set, and reads of the
// keys listed in failGets at any time.
type failingStorage struct {
	*storage.MemoryStorage
	broken   bool
	failGets map[string]bool
}

func newFailingStorage() *failingStorage {
	return &failingStorage{MemoryStorage: storage.NewMemoryStorage(), failGets: map[string]bool{}}
}

func (f *failingStorage) Get(ctx context.Context, key string) (string, bool, error) {
	if f.broken || f.failGets[key] {
		return "", false, errStorageDown
	}
	return f.MemoryStorage.Get(ctx, key)
}

func (f *failingStorage) Set(ctx context.Context, key, value string) error {
	if f.broken {
		return errStorageDown
	}
	return f.MemoryStorage.Set(ctx, key, value)
}

func (f *failingStorage) Remove(ctx context.Context, key string) error {
	if f.broken {
		return errStorageDown
	}
	return f.MemoryStorage.Remove(ctx, key)
}
