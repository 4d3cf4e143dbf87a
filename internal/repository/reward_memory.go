package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/klede-lab/waitlist/internal/entity"
)

type rewardMemoryRepository struct {
	mutex   sync.RWMutex
	nextID  int
	rewards []entity.Reward
}

func NewRewardMemoryRepository() *rewardMemoryRepository {
	return &rewardMemoryRepository{nextID: 1}
}

func (r *rewardMemoryRepository) Create(ctx context.Context, data *entity.Reward) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if data.ID == 0 {
		data.ID = r.nextID
	}

	if data.ID >= r.nextID {
		r.nextID = data.ID + 1
	}

	if data.CreatedAt.IsZero() {
		data.CreatedAt = time.Now()
	}

	r.rewards = append(r.rewards, *data)
	return nil
}

func (r *rewardMemoryRepository) GetActive(ctx context.Context) ([]entity.Reward, error) {
	return r.filter(func(reward entity.Reward) bool { return reward.IsActive }), nil
}

func (r *rewardMemoryRepository) GetAll(ctx context.Context) ([]entity.Reward, error) {
	return r.filter(func(entity.Reward) bool { return true }), nil
}

func (r *rewardMemoryRepository) GetByLevel(ctx context.Context, level int) ([]entity.Reward, error) {
	return r.filter(func(reward entity.Reward) bool {
		return reward.IsActive && reward.RequiredLevel <= level
	}), nil
}

func (r *rewardMemoryRepository) filter(keep func(entity.Reward) bool) []entity.Reward {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := []entity.Reward{}
	for _, reward := range r.rewards {
		if keep(reward) {
			result = append(result, reward)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].RequiredLevel == result[j].RequiredLevel {
			return result[i].ID < result[j].ID
		}
		return result[i].RequiredLevel < result[j].RequiredLevel
	})

	return result
}
