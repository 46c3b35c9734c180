package models

// Task represents one unit of work in a user's collection.
// Field order matches the persisted JSON layout.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// TaskPatch carries a partial edit. Nil fields are left untouched.
type TaskPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// FilterMode selects which tasks a view shows.
type FilterMode string

const (
	FilterAll       FilterMode = "all"
	FilterPending   FilterMode = "pending"
	FilterCompleted FilterMode = "completed"
)

// Valid reports whether m is one of the known filter modes.
func (m FilterMode) Valid() bool {
	switch m {
	case FilterAll, FilterPending, FilterCompleted:
		return true
	}
	return false
}

// TaskCounts holds the aggregates shown next to each filter.
type TaskCounts struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
}
