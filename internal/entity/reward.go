package entity

import "time"

type Reward struct {
	ID             int `gorm:"primaryKey"`
	Name           string
	Description    string
	RequiredLevel  int `gorm:"index"`
	RequiredPoints int
	Type           string
	Value          string
	IsActive       bool
	CreatedAt      time.Time
}
