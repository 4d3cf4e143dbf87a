package referral

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/klede-lab/waitlist/internal/entity"
	"github.com/klede-lab/waitlist/internal/repository"
	"github.com/klede-lab/waitlist/pkg/crypto"
	"github.com/klede-lab/waitlist/pkg/errorx"
	"github.com/klede-lab/waitlist/pkg/xcontext"
	"gorm.io/gorm"
)

const (
	codeLength      = 8
	maxCodeAttempts = 5
)

// GenerateCode derives a referral code from the email and the given time: the
// first 8 hex characters of sha256(email + unix milliseconds), uppercased.
func GenerateCode(email string, now time.Time) string {
	hashed := crypto.SHA256Hex([]byte(email + strconv.FormatInt(now.UnixMilli(), 10)))
	return strings.ToUpper(hashed[:codeLength])
}

type Resolver struct {
	entryRepo repository.WaitlistEntryRepository
	now       func() time.Time
}

func NewResolver(entryRepo repository.WaitlistEntryRepository) *Resolver {
	return &Resolver{entryRepo: entryRepo, now: time.Now}
}

// Resolve returns the entry owning the referral code.
func (r *Resolver) Resolve(ctx context.Context, code string) (*entity.WaitlistEntry, error) {
	if code == "" {
		return nil, errorx.New(errorx.NotFound, "Invalid referral code")
	}

	entry, err := r.entryRepo.GetByReferralCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Invalid referral code")
		}

		xcontext.Logger(ctx).Errorf("Cannot get entry by referral code: %v", err)
		return nil, errorx.Unknown
	}

	return entry, nil
}

// NewCode generates a referral code which is not used by any entry yet.
func (r *Resolver) NewCode(ctx context.Context, email string) (string, error) {
	now := r.now()
	for i := 0; i < maxCodeAttempts; i++ {
		code := GenerateCode(email, now.Add(time.Duration(i)*time.Millisecond))

		_, err := r.entryRepo.GetByReferralCode(ctx, code)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code, nil
		}

		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot check referral code: %v", err)
			return "", errorx.Unknown
		}

		xcontext.Logger(ctx).Warnf("Referral code %s is already taken, retry", code)
	}

	xcontext.Logger(ctx).Errorf("Cannot generate a unique referral code for %s", email)
	return "", errorx.New(errorx.Internal, "Cannot generate referral code")
}
