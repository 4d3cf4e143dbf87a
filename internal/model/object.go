package model

type WaitlistEntry struct {
	ID                      int64           `json:"id"`
	Email                   string          `json:"email"`
	Name                    string          `json:"name,omitempty"`
	ReferralSource          string          `json:"referralSource,omitempty"`
	ReferralCode            string          `json:"referralCode"`
	ReferredBy              string          `json:"referredBy,omitempty"`
	Points                  int             `json:"points"`
	Level                   int             `json:"level"`
	TaskCompletions         map[string]bool `json:"taskCompletions"`
	UnlockedRewards         []string        `json:"unlockedRewards"`
	HasReceivedWelcomeEmail bool            `json:"hasReceivedWelcomeEmail"`
	LastInteractionAt       string          `json:"lastInteractionAt"`
	CreatedAt               string          `json:"createdAt"`
}

type Task struct {
	ID            int            `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	PointsAwarded int            `json:"pointsAwarded"`
	Type          string         `json:"type"`
	Requirements  map[string]any `json:"requirements,omitempty"`
	IsActive      bool           `json:"isActive"`
}

type ProfileTask struct {
	Task
	Completed bool `json:"completed"`
}

type Reward struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	RequiredLevel  int    `json:"requiredLevel"`
	RequiredPoints int    `json:"requiredPoints"`
	Type           string `json:"type"`
	Value          string `json:"value"`
	IsActive       bool   `json:"isActive"`
}

type Gamification struct {
	CurrentLevel    int      `json:"currentLevel"`
	CurrentPoints   int      `json:"currentPoints"`
	NextLevelPoints int      `json:"nextLevelPoints"`
	LevelProgress   int      `json:"levelProgress"`
	UnlockedRewards []string `json:"unlockedRewards"`
}

type Level struct {
	Level          int      `json:"level"`
	RequiredPoints int      `json:"requiredPoints"`
	Rewards        []string `json:"rewards"`
	RewardsDetails []Reward `json:"rewardsDetails"`
}

type LeaderboardItem struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Level  int    `json:"level"`
	Points int    `json:"points"`
}
