package domain

import "time"

// TopicStatus tracks a topic's progress toward the learning goal.
type TopicStatus string

const (
	TopicStatusPending   TopicStatus = "pending"
	TopicStatusCompleted TopicStatus = "completed"
)

// Toggle flips pending to completed and back.
func (s TopicStatus) Toggle() TopicStatus {
	if s == TopicStatusPending {
		return TopicStatusCompleted
	}
	return TopicStatusPending
}

// Topic is a unit of study attached to an account's goal.
type Topic struct {
	ID        string      `json:"id"`
	AccountID string      `json:"-"`
	GoalID    string      `json:"goalId"`
	Name      string      `json:"name"`
	Status    TopicStatus `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}
