package level

import (
	"context"
	"errors"

	"github.com/klede-lab/waitlist/internal/entity"
	"github.com/klede-lab/waitlist/internal/repository"
	"github.com/klede-lab/waitlist/pkg/errorx"
	"github.com/klede-lab/waitlist/pkg/xcontext"
	"gorm.io/gorm"
)

type Engine struct {
	table     *Table
	entryRepo repository.WaitlistEntryRepository
}

func NewEngine(table *Table, entryRepo repository.WaitlistEntryRepository) *Engine {
	return &Engine{table: table, entryRepo: entryRepo}
}

func (e *Engine) Table() *Table {
	return e.table
}

// Apply updates the level and rewards of the entry in place, it does not
// persist anything.
func (e *Engine) Apply(entry *entity.WaitlistEntry) Result {
	result := e.table.CheckLevelUp(entry.Level, entry.Points, entry.UnlockedRewards)
	if result.LeveledUp {
		entry.Level = result.NewLevel
		entry.UnlockedRewards = result.AllRewards
	}

	return result
}

// CheckLevelUp re-evaluates the level of the entry and persists it when the
// entry leveled up.
func (e *Engine) CheckLevelUp(ctx context.Context, email string) (*entity.WaitlistEntry, Result, error) {
	entry, err := e.entryRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Result{}, errorx.New(errorx.NotFound, "User not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get waitlist entry: %v", err)
		return nil, Result{}, errorx.Unknown
	}

	result := e.Apply(entry)
	if !result.LeveledUp {
		return entry, result, nil
	}

	if err := e.entryRepo.Update(ctx, entry); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update level of waitlist entry: %v", err)
		return nil, Result{}, errorx.Unknown
	}

	return entry, result, nil
}

// Recheck runs CheckLevelUp on every entry, it is used after the thresholds
// changed. It returns the number of entries which leveled up.
func (e *Engine) Recheck(ctx context.Context) (int, error) {
	entries, err := e.entryRepo.GetList(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get waitlist entries: %v", err)
		return 0, errorx.Unknown
	}

	leveledUp := 0
	for _, entry := range entries {
		_, result, err := e.CheckLevelUp(ctx, entry.Email)
		if err != nil {
			return leveledUp, err
		}

		if result.LeveledUp {
			leveledUp++
		}
	}

	return leveledUp, nil
}
