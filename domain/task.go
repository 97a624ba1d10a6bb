package domain

// Task is a single to-do entry.
type Task struct {
	ID          int64  `json:"id"`
	Text        string `json:"text"`
	IsCompleted bool   `json:"isCompleted"`
	CreatedAt   string `json:"createdAt,omitempty"`
}
