package entity

import (
	"strconv"
	"time"

	"golang.org/x/exp/slices"
)

type WaitlistEntry struct {
	SnowFlakeBase

	Email          string `gorm:"unique;not null"`
	Name           string
	ReferralSource string
	ReferralCode   string `gorm:"unique;not null"`
	ReferredBy     string `gorm:"index"`

	Points          int `gorm:"not null"`
	Level           int `gorm:"not null"`
	TaskCompletions Flags
	UnlockedRewards Array[string]

	HasReceivedWelcomeEmail bool
	LastInteractionAt       time.Time

	// Version is increased by every gamification update.
	Version int64 `gorm:"not null"`
}

func (e *WaitlistEntry) HasCompleted(taskID int) bool {
	return e.TaskCompletions[strconv.Itoa(taskID)]
}

func (e *WaitlistEntry) MarkCompleted(taskID int) {
	if e.TaskCompletions == nil {
		e.TaskCompletions = Flags{}
	}

	e.TaskCompletions[strconv.Itoa(taskID)] = true
}

func (e *WaitlistEntry) HasReward(reward string) bool {
	return slices.Contains(e.UnlockedRewards, reward)
}

// Clone returns a deep copy of the entry.
func (e *WaitlistEntry) Clone() *WaitlistEntry {
	clone := *e

	if e.TaskCompletions != nil {
		clone.TaskCompletions = make(Flags, len(e.TaskCompletions))
		for k, v := range e.TaskCompletions {
			clone.TaskCompletions[k] = v
		}
	}

	if e.UnlockedRewards != nil {
		clone.UnlockedRewards = append(Array[string]{}, e.UnlockedRewards...)
	}

	return &clone
}
