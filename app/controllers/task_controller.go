package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"task-tracker/app/models"
	"task-tracker/app/services"

	"github.com/gorilla/mux"
)

// TaskController handles HTTP requests for the active user's tasks.
type TaskController struct {
	Tracker *services.Tracker
	logger  *slog.Logger
}

// NewTaskController creates a new TaskController.
func NewTaskController(tracker *services.Tracker, logger *slog.Logger) *TaskController {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskController{Tracker: tracker, logger: logger}
}

type taskListResponse struct {
	Tasks  []models.Task     `json:"tasks"`
	Counts models.TaskCounts `json:"counts"`
}

// GetTasks handles GET /tasks?filter=all|pending|completed.
func (c *TaskController) GetTasks(w http.ResponseWriter, r *http.Request) {
	mode := models.FilterAll
	if f := r.URL.Query().Get("filter"); f != "" {
		mode = models.FilterMode(f)
	}
	if !mode.Valid() {
		http.Error(w, "Unknown filter", http.StatusBadRequest)
		return
	}

	tasks, counts, err := c.Tracker.Tasks(mode)
	if err != nil {
		c.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, taskListResponse{Tasks: tasks, Counts: counts})
}

// CreateTask handles POST /tasks.
func (c *TaskController) CreateTask(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	task, created, err := c.Tracker.AddTask(r.Context(), input.Title, input.Description)
	if err != nil {
		c.fail(w, err)
		return
	}
	if !created {
		http.Error(w, "Title is required", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// GetTaskByID handles GET /tasks/{taskID}.
func (c *TaskController) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["taskID"]
	task, found, err := c.Tracker.Task(taskID)
	if err != nil {
		c.fail(w, err)
		return
	}
	if !found {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// UpdateTask handles PUT /tasks/{taskID}. Only the fields present in the body change.
func (c *TaskController) UpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["taskID"]
	var patch models.TaskPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	// The editing surface trims and requires a title; the store does not.
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			http.Error(w, "Title is required", http.StatusBadRequest)
			return
		}
		patch.Title = &title
	}
	if patch.Description != nil {
		description := strings.TrimSpace(*patch.Description)
		patch.Description = &description
	}

	task, found, err := c.Tracker.UpdateTask(r.Context(), taskID, patch)
	if err != nil {
		c.fail(w, err)
		return
	}
	if !found {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// ToggleTask handles POST /tasks/{taskID}/toggle.
func (c *TaskController) ToggleTask(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["taskID"]
	task, found, err := c.Tracker.ToggleTask(r.Context(), taskID)
	if err != nil {
		c.fail(w, err)
		return
	}
	if !found {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// DeleteTask handles DELETE /tasks/{taskID}.
func (c *TaskController) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["taskID"]
	found, err := c.Tracker.DeleteTask(r.Context(), taskID)
	if err != nil {
		c.fail(w, err)
		return
	}
	if !found {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *TaskController) fail(w http.ResponseWriter, err error) {
	respondError(c.logger, w, err)
}

// respondError maps service errors onto status codes.
func respondError(logger *slog.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNoActiveUser):
		http.Error(w, "No active session", http.StatusConflict)
	case errors.Is(err, services.ErrEmptyUsername):
		http.Error(w, "Username is required", http.StatusBadRequest)
	default:
		logger.Error("Request failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
