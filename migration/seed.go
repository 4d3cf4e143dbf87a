package migration

import (
	"context"
	"fmt"

	"github.com/klede-lab/waitlist/config"
	"github.com/klede-lab/waitlist/internal/entity"
	"github.com/klede-lab/waitlist/internal/repository"
	"github.com/klede-lab/waitlist/pkg/enum"
	"github.com/klede-lab/waitlist/pkg/xcontext"
)

// Seed inserts the catalog tasks and rewards into empty tables. Existing
// tables are left untouched.
func Seed(
	ctx context.Context,
	catalog *config.Catalog,
	taskRepo repository.TaskRepository,
	rewardRepo repository.RewardRepository,
) (err error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer func() {
		if err != nil {
			xcontext.WithRollbackDBTransaction(ctx)
		} else {
			err = xcontext.WithCommitDBTransaction(ctx)
		}
	}()

	tasks, err := taskRepo.GetAll(ctx)
	if err != nil {
		return err
	}

	if len(tasks) == 0 {
		for _, def := range catalog.Tasks {
			taskType, err := enum.ToEnum[entity.TaskType](def.Type)
			if err != nil {
				return fmt.Errorf("task %d: %w", def.ID, err)
			}

			task := &entity.Task{
				ID:            def.ID,
				Name:          def.Name,
				Description:   def.Description,
				PointsAwarded: def.PointsAwarded,
				Type:          taskType,
				Requirements:  def.Requirements,
				IsActive:      !def.Inactive,
			}

			if err := taskRepo.Create(ctx, task); err != nil {
				return err
			}
		}

		xcontext.Logger(ctx).Infof("Seeded %d tasks", len(catalog.Tasks))
	}

	rewards, err := rewardRepo.GetAll(ctx)
	if err != nil {
		return err
	}

	if len(rewards) == 0 {
		for _, def := range catalog.Rewards {
			reward := &entity.Reward{
				Name:           def.Name,
				Description:    def.Description,
				RequiredLevel:  def.RequiredLevel,
				RequiredPoints: def.RequiredPoints,
				Type:           def.Type,
				Value:          def.Value,
				IsActive:       !def.Inactive,
			}

			if err := rewardRepo.Create(ctx, reward); err != nil {
				return err
			}
		}

		xcontext.Logger(ctx).Infof("Seeded %d rewards", len(catalog.Rewards))
	}

	return nil
}
