package testutil

import (
	"context"

	"github.com/klede-lab/waitlist/internal/repository"
	"github.com/klede-lab/waitlist/migration"
)

// Repositories groups the stores used by the fixtures.
type Repositories struct {
	Entry  repository.WaitlistEntryRepository
	Task   repository.TaskRepository
	Reward repository.RewardRepository
}

func NewGormRepositories() Repositories {
	return Repositories{
		Entry:  repository.NewWaitlistEntryRepository(),
		Task:   repository.NewTaskRepository(),
		Reward: repository.NewRewardRepository(),
	}
}

func NewMemoryRepositories() Repositories {
	return Repositories{
		Entry:  repository.NewWaitlistEntryMemoryRepository(),
		Task:   repository.NewTaskMemoryRepository(),
		Reward: repository.NewRewardMemoryRepository(),
	}
}

// CreateFixture seeds the default catalog into the repositories.
func CreateFixture(ctx context.Context, repos Repositories) {
	if err := migration.Seed(ctx, MockCatalog(), repos.Task, repos.Reward); err != nil {
		panic(err)
	}
}

// StoreCase describes one store flavour for table driven tests which must
// hold for both the gorm and the in-memory repositories.
type StoreCase struct {
	Name  string
	Setup func() (context.Context, Repositories)
}

func StoreCases() []StoreCase {
	return []StoreCase{
		{
			Name: "gorm",
			Setup: func() (context.Context, Repositories) {
				ctx := MockContext()
				repos := NewGormRepositories()
				CreateFixture(ctx, repos)
				return ctx, repos
			},
		},
		{
			Name: "memory",
			Setup: func() (context.Context, Repositories) {
				ctx := MockMemoryContext()
				repos := NewMemoryRepositories()
				CreateFixture(ctx, repos)
				return ctx, repos
			},
		},
	}
}
