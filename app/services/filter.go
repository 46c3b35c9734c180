package services

import "task-tracker/app/models"

// Filter projects tasks through mode, keeping source order. Any mode other
// than pending or completed shows everything.
func Filter(tasks []models.Task, mode models.FilterMode) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		switch mode {
		case models.FilterPending:
			if t.Completed {
				continue
			}
		case models.FilterCompleted:
			if !t.Completed {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// Count aggregates tasks by completion.
func Count(tasks []models.Task) models.TaskCounts {
	completed := 0
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}
	return models.TaskCounts{
		Total:     len(tasks),
		Pending:   len(tasks) - completed,
		Completed: completed,
	}
}
