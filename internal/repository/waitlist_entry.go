package repository

import (
	"context"
	"errors"
	"time"

	"github.com/klede-lab/waitlist/internal/entity"
	"github.com/klede-lab/waitlist/pkg/idutil"
	"github.com/klede-lab/waitlist/pkg/xcontext"
	"gorm.io/gorm"
)

// ErrStaleEntry is returned by Update when the entry was modified after it
// had been read.
var ErrStaleEntry = errors.New("stale waitlist entry")

type WaitlistEntryRepository interface {
	Create(ctx context.Context, data *entity.WaitlistEntry) error
	GetByID(ctx context.Context, id int64) (*entity.WaitlistEntry, error)
	GetByEmail(ctx context.Context, email string) (*entity.WaitlistEntry, error)
	GetByReferralCode(ctx context.Context, code string) (*entity.WaitlistEntry, error)
	GetByIDs(ctx context.Context, ids []int64) ([]entity.WaitlistEntry, error)
	GetList(ctx context.Context) ([]entity.WaitlistEntry, error)
	GetTopByPoints(ctx context.Context, limit int) ([]entity.WaitlistEntry, error)
	Count(ctx context.Context) (int64, error)

	// Update persists the gamification fields of the entry if its version
	// is still the stored one, then increases the version of the entry.
	Update(ctx context.Context, data *entity.WaitlistEntry) error
	MarkWelcomeEmailSent(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

type waitlistEntryRepository struct{}

func NewWaitlistEntryRepository() *waitlistEntryRepository {
	return &waitlistEntryRepository{}
}

func (r *waitlistEntryRepository) Create(ctx context.Context, data *entity.WaitlistEntry) error {
	if data.ID == 0 {
		data.ID = idutil.Generate()
	}

	if data.LastInteractionAt.IsZero() {
		data.LastInteractionAt = time.Now()
	}

	return xcontext.DB(ctx).Create(data).Error
}

func (r *waitlistEntryRepository) GetByID(ctx context.Context, id int64) (*entity.WaitlistEntry, error) {
	var result entity.WaitlistEntry
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *waitlistEntryRepository) GetByEmail(ctx context.Context, email string) (*entity.WaitlistEntry, error) {
	var result entity.WaitlistEntry
	if err := xcontext.DB(ctx).Take(&result, "email=?", email).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *waitlistEntryRepository) GetByReferralCode(ctx context.Context, code string) (*entity.WaitlistEntry, error) {
	var result entity.WaitlistEntry
	if err := xcontext.DB(ctx).Take(&result, "referral_code=?", code).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *waitlistEntryRepository) GetByIDs(ctx context.Context, ids []int64) ([]entity.WaitlistEntry, error) {
	var result []entity.WaitlistEntry
	if err := xcontext.DB(ctx).Find(&result, "id IN (?)", ids).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *waitlistEntryRepository) GetList(ctx context.Context) ([]entity.WaitlistEntry, error) {
	var result []entity.WaitlistEntry
	if err := xcontext.DB(ctx).Order("created_at ASC, id ASC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *waitlistEntryRepository) GetTopByPoints(ctx context.Context, limit int) ([]entity.WaitlistEntry, error) {
	var result []entity.WaitlistEntry
	err := xcontext.DB(ctx).
		Order("points DESC, id ASC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *waitlistEntryRepository) Count(ctx context.Context) (int64, error) {
	var result int64
	if err := xcontext.DB(ctx).Model(&entity.WaitlistEntry{}).Count(&result).Error; err != nil {
		return 0, err
	}

	return result, nil
}

func (r *waitlistEntryRepository) Update(ctx context.Context, data *entity.WaitlistEntry) error {
	tx := xcontext.DB(ctx).
		Model(&entity.WaitlistEntry{}).
		Where("id=? AND version=?", data.ID, data.Version).
		Updates(map[string]any{
			"points":              data.Points,
			"level":               data.Level,
			"task_completions":    data.TaskCompletions,
			"unlocked_rewards":    data.UnlockedRewards,
			"last_interaction_at": data.LastInteractionAt,
			"version":             gorm.Expr("version+1"),
		})
	if err := tx.Error; err != nil {
		return err
	}

	if tx.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, data.ID); err != nil {
			return err
		}

		return ErrStaleEntry
	}

	data.Version++
	return nil
}

func (r *waitlistEntryRepository) MarkWelcomeEmailSent(ctx context.Context, id int64) error {
	return xcontext.DB(ctx).
		Model(&entity.WaitlistEntry{}).
		Where("id=?", id).
		Update("has_received_welcome_email", true).Error
}

func (r *waitlistEntryRepository) Delete(ctx context.Context, id int64) error {
	tx := xcontext.DB(ctx).Delete(&entity.WaitlistEntry{}, "id=?", id)
	if err := tx.Error; err != nil {
		return err
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
