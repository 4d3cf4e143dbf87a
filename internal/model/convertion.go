package model

import (
	"time"

	"github.com/klede-lab/waitlist/internal/entity"
)

const DefaultTimeLayout string = time.RFC3339Nano

func ConvertWaitlistEntry(entry *entity.WaitlistEntry) WaitlistEntry {
	if entry == nil {
		return WaitlistEntry{}
	}

	completions := map[string]bool{}
	for k, v := range entry.TaskCompletions {
		completions[k] = v
	}

	rewards := []string{}
	rewards = append(rewards, entry.UnlockedRewards...)

	return WaitlistEntry{
		ID:                      entry.ID,
		Email:                   entry.Email,
		Name:                    entry.Name,
		ReferralSource:          entry.ReferralSource,
		ReferralCode:            entry.ReferralCode,
		ReferredBy:              entry.ReferredBy,
		Points:                  entry.Points,
		Level:                   entry.Level,
		TaskCompletions:         completions,
		UnlockedRewards:         rewards,
		HasReceivedWelcomeEmail: entry.HasReceivedWelcomeEmail,
		LastInteractionAt:       entry.LastInteractionAt.Format(DefaultTimeLayout),
		CreatedAt:               entry.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertTask(task *entity.Task) Task {
	if task == nil {
		return Task{}
	}

	return Task{
		ID:            task.ID,
		Name:          task.Name,
		Description:   task.Description,
		PointsAwarded: task.PointsAwarded,
		Type:          string(task.Type),
		Requirements:  task.Requirements,
		IsActive:      task.IsActive,
	}
}

func ConvertReward(reward *entity.Reward) Reward {
	if reward == nil {
		return Reward{}
	}

	return Reward{
		ID:             reward.ID,
		Name:           reward.Name,
		Description:    reward.Description,
		RequiredLevel:  reward.RequiredLevel,
		RequiredPoints: reward.RequiredPoints,
		Type:           reward.Type,
		Value:          reward.Value,
		IsActive:       reward.IsActive,
	}
}

func ConvertRewards(rewards []entity.Reward) []Reward {
	result := []Reward{}
	for i := range rewards {
		result = append(result, ConvertReward(&rewards[i]))
	}

	return result
}
