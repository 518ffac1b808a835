package task

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description" db:"description"`
	Status      Status     `json:"status" db:"status"`
	Owner       string     `json:"owner" db:"owner"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

type Status string

const StatusPending Status = "pending"
const StatusDone Status = "done"

// ParseStatus accepts only the two states a task can be in.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusDone:
		return Status(s), true
	default:
		return "", false
	}
}
