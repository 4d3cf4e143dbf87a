package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/klede-lab/waitlist/internal/entity"
	"github.com/klede-lab/waitlist/pkg/idutil"
	"gorm.io/gorm"
)

// waitlistEntryMemoryRepository keeps entries in process memory. It returns
// the same sentinel errors as the gorm implementation. Every entry handed out
// is a copy, callers never share state with the store.
type waitlistEntryMemoryRepository struct {
	mutex sync.RWMutex

	entries        map[int64]*entity.WaitlistEntry
	byEmail        map[string]int64
	byReferralCode map[string]int64
}

func NewWaitlistEntryMemoryRepository() *waitlistEntryMemoryRepository {
	return &waitlistEntryMemoryRepository{
		entries:        make(map[int64]*entity.WaitlistEntry),
		byEmail:        make(map[string]int64),
		byReferralCode: make(map[string]int64),
	}
}

func (r *waitlistEntryMemoryRepository) Create(ctx context.Context, data *entity.WaitlistEntry) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.byEmail[data.Email]; ok {
		return gorm.ErrDuplicatedKey
	}

	if data.ReferralCode != "" {
		if _, ok := r.byReferralCode[data.ReferralCode]; ok {
			return gorm.ErrDuplicatedKey
		}
	}

	if data.ID == 0 {
		data.ID = idutil.Generate()
	}

	now := time.Now()
	data.CreatedAt = now
	data.UpdatedAt = now
	if data.LastInteractionAt.IsZero() {
		data.LastInteractionAt = now
	}

	r.entries[data.ID] = data.Clone()
	r.byEmail[data.Email] = data.ID
	if data.ReferralCode != "" {
		r.byReferralCode[data.ReferralCode] = data.ID
	}

	return nil
}

func (r *waitlistEntryMemoryRepository) GetByID(ctx context.Context, id int64) (*entity.WaitlistEntry, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	entry, ok := r.entries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	return entry.Clone(), nil
}

func (r *waitlistEntryMemoryRepository) GetByEmail(ctx context.Context, email string) (*entity.WaitlistEntry, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	return r.entries[id].Clone(), nil
}

func (r *waitlistEntryMemoryRepository) GetByReferralCode(ctx context.Context, code string) (*entity.WaitlistEntry, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	id, ok := r.byReferralCode[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	return r.entries[id].Clone(), nil
}

func (r *waitlistEntryMemoryRepository) GetByIDs(ctx context.Context, ids []int64) ([]entity.WaitlistEntry, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := []entity.WaitlistEntry{}
	for _, id := range ids {
		if entry, ok := r.entries[id]; ok {
			result = append(result, *entry.Clone())
		}
	}

	return result, nil
}

func (r *waitlistEntryMemoryRepository) GetList(ctx context.Context) ([]entity.WaitlistEntry, error) {
	result := r.snapshot()
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

func (r *waitlistEntryMemoryRepository) GetTopByPoints(ctx context.Context, limit int) ([]entity.WaitlistEntry, error) {
	result := r.snapshot()
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Points == result[j].Points {
			return result[i].ID < result[j].ID
		}
		return result[i].Points > result[j].Points
	})

	if limit >= 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

func (r *waitlistEntryMemoryRepository) Count(ctx context.Context) (int64, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return int64(len(r.entries)), nil
}

func (r *waitlistEntryMemoryRepository) Update(ctx context.Context, data *entity.WaitlistEntry) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	stored, ok := r.entries[data.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}

	if stored.Version != data.Version {
		return ErrStaleEntry
	}

	updated := stored.Clone()
	updated.Points = data.Points
	updated.Level = data.Level
	updated.TaskCompletions = data.Clone().TaskCompletions
	updated.UnlockedRewards = data.Clone().UnlockedRewards
	updated.LastInteractionAt = data.LastInteractionAt
	updated.UpdatedAt = time.Now()
	updated.Version++

	r.entries[data.ID] = updated
	data.Version = updated.Version
	return nil
}

func (r *waitlistEntryMemoryRepository) MarkWelcomeEmailSent(ctx context.Context, id int64) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	entry, ok := r.entries[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}

	entry.HasReceivedWelcomeEmail = true
	return nil
}

func (r *waitlistEntryMemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	entry, ok := r.entries[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}

	delete(r.entries, id)
	delete(r.byEmail, entry.Email)
	delete(r.byReferralCode, entry.ReferralCode)
	return nil
}

func (r *waitlistEntryMemoryRepository) snapshot() []entity.WaitlistEntry {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]entity.WaitlistEntry, 0, len(r.entries))
	for _, entry := range r.entries {
		result = append(result, *entry.Clone())
	}

	return result
}
