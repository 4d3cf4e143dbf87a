package repository

import (
	"context"

	"github.com/klede-lab/waitlist/internal/entity"
	"github.com/klede-lab/waitlist/pkg/xcontext"
)

type RewardRepository interface {
	Create(ctx context.Context, data *entity.Reward) error
	GetActive(ctx context.Context) ([]entity.Reward, error)
	GetAll(ctx context.Context) ([]entity.Reward, error)

	// GetByLevel returns the active rewards whose required level is less
	// than or equal to the given level, ordered by required level.
	GetByLevel(ctx context.Context, level int) ([]entity.Reward, error)
}

type rewardRepository struct{}

func NewRewardRepository() *rewardRepository {
	return &rewardRepository{}
}

func (r *rewardRepository) Create(ctx context.Context, data *entity.Reward) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *rewardRepository) GetActive(ctx context.Context) ([]entity.Reward, error) {
	var result []entity.Reward
	err := xcontext.DB(ctx).
		Where("is_active=?", true).
		Order("required_level ASC, id ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *rewardRepository) GetAll(ctx context.Context) ([]entity.Reward, error) {
	var result []entity.Reward
	if err := xcontext.DB(ctx).Order("required_level ASC, id ASC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *rewardRepository) GetByLevel(ctx context.Context, level int) ([]entity.Reward, error) {
	var result []entity.Reward
	err := xcontext.DB(ctx).
		Where("is_active=? AND required_level<=?", true, level).
		Order("required_level ASC, id ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
