package model

const (
	SignupTopic        = "waitlist.signup"
	TaskCompletedTopic = "waitlist.task_completed"
	LevelUpTopic       = "waitlist.level_up"
)

type GamificationEvent struct {
	EntryID         int64    `json:"entryId"`
	Email           string   `json:"email"`
	TaskID          int      `json:"taskId,omitempty"`
	PointsAwarded   int      `json:"pointsAwarded,omitempty"`
	Points          int      `json:"points"`
	Level           int      `json:"level"`
	UnlockedRewards []string `json:"unlockedRewards,omitempty"`
	ReferredBy      string   `json:"referredBy,omitempty"`
	RequestID       string   `json:"requestId,omitempty"`
	Timestamp       string   `json:"timestamp"`
}
