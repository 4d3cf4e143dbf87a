package model

import "net/http"

type SignupRequest struct {
	Email          string `json:"email"`
	Name           string `json:"name"`
	ReferralSource string `json:"referralSource"`
	ReferralCode   string `json:"referralCode"`
}

type SignupResponse struct {
	Message string        `json:"message"`
	Entry   WaitlistEntry `json:"entry"`
}

type CompleteTaskRequest struct {
	Email             string `json:"email"`
	TaskID            int    `json:"taskId"`
	ProofOfCompletion string `json:"proofOfCompletion"`
}

type CompleteTaskResponse struct {
	Success          bool          `json:"success"`
	AlreadyCompleted bool          `json:"alreadyCompleted"`
	UpdatedEntry     WaitlistEntry `json:"updatedEntry"`
	LevelUp          bool          `json:"levelUp"`
	NewLevel         int           `json:"newLevel,omitempty"`
	UnlockedRewards  []string      `json:"unlockedRewards"`
}

type GetProfileRequest struct {
	Email string `json:"email"`
}

type GetProfileResponse struct {
	WaitlistEntry
	Tasks        []ProfileTask `json:"tasks"`
	Rewards      []Reward      `json:"rewards"`
	Gamification Gamification  `json:"gamification"`
}

type GetReferralRequest struct {
	ReferralCode string `json:"referralCode"`
}

type GetReferralResponse struct {
	ReferralCode string `json:"referralCode"`
	ReferrerName string `json:"referrerName"`
	Valid        bool   `json:"valid"`
}

type GetLeaderboardRequest struct{}

type GetLeaderboardResponse struct {
	Leaderboard []LeaderboardItem `json:"leaderboard"`
}

type GetLevelsRequest struct{}

type GetLevelsResponse struct {
	Levels []Level `json:"levels"`
}

type GetTasksRequest struct{}

type GetTasksResponse struct {
	Tasks []Task `json:"tasks"`
}

func (r *SignupResponse) HTTPStatus() int {
	return http.StatusCreated
}
