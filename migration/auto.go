package migration

import (
	"context"

	"github.com/klede-lab/waitlist/internal/entity"
	"github.com/klede-lab/waitlist/pkg/xcontext"
)

func AutoMigrate(ctx context.Context) error {
	db := xcontext.DB(ctx)
	if db == nil {
		return nil
	}

	return db.AutoMigrate(
		&entity.WaitlistEntry{},
		&entity.Task{},
		&entity.Reward{},
	)
}
