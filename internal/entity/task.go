package entity

import (
	"time"

	"github.com/klede-lab/waitlist/pkg/enum"
	"gorm.io/datatypes"
)

type TaskType string

var (
	TaskTypeSignup      = enum.New(TaskType("signup"))
	TaskTypeReferral    = enum.New(TaskType("referral"))
	TaskTypeSocialShare = enum.New(TaskType("social_share"))
	TaskTypeSurvey      = enum.New(TaskType("survey"))
	TaskTypeEmailOpened = enum.New(TaskType("email_opened"))
)

type Task struct {
	ID            int `gorm:"primaryKey;autoIncrement:false"`
	Name          string
	Description   string
	PointsAwarded int      `gorm:"not null"`
	Type          TaskType `gorm:"index"`
	Requirements  datatypes.JSONMap
	IsActive      bool
	CreatedAt     time.Time
}
