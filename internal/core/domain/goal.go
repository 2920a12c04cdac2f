package domain

import "time"

// DefaultGoalTitle and DefaultGoalDescription seed the goal created with a
// fresh account.
const (
	DefaultGoalTitle       = "My Learning Goal"
	DefaultGoalDescription = "Start tracking your learning journey"
)

// Goal is the single learning goal owned by an account.
type Goal struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"-"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
