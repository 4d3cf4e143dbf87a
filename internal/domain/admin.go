package domain

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/klede-lab/waitlist/internal/common"
	"github.com/klede-lab/waitlist/internal/domain/mail"
	"github.com/klede-lab/waitlist/internal/domain/statistic"
	"github.com/klede-lab/waitlist/internal/entity"
	"github.com/klede-lab/waitlist/internal/model"
	"github.com/klede-lab/waitlist/internal/repository"
	"github.com/klede-lab/waitlist/pkg/authenticator"
	"github.com/klede-lab/waitlist/pkg/crypto"
	"github.com/klede-lab/waitlist/pkg/errorx"
	"github.com/klede-lab/waitlist/pkg/xcontext"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const defaultEmailConcurrency = 10

var exportHeader = []string{
	"id", "email", "name", "referral_source", "referral_code",
	"referred_by", "level", "points", "created_at",
}

type AdminDomain interface {
	Login(context.Context, *model.AdminLoginRequest) (*model.AdminLoginResponse, error)
	Logout(context.Context, *model.AdminLogoutRequest) (*model.AdminLogoutResponse, error)
	Check(context.Context, *model.AdminCheckRequest) (*model.AdminCheckResponse, error)
	ListEntries(context.Context, *model.AdminListEntriesRequest) (*model.AdminListEntriesResponse, error)
	ExportEntries(context.Context, *model.AdminExportEntriesRequest) (*model.AdminExportEntriesResponse, error)
	DeleteEntry(context.Context, *model.AdminDeleteEntryRequest) (*model.AdminDeleteEntryResponse, error)
	SendPromotional(context.Context, *model.SendPromotionalRequest) (*model.SendPromotionalResponse, error)
	SendLaunchAnnouncement(context.Context, *model.SendLaunchAnnouncementRequest) (*model.SendLaunchAnnouncementResponse, error)
}

type adminDomain struct {
	entryRepo     repository.WaitlistEntryRepository
	leaderboard   statistic.Leaderboard
	notifier      mail.Notifier
	tokenEngine   authenticator.TokenEngine[model.AccessToken]
	adminVerifier *common.AdminVerifier
}

func NewAdminDomain(
	entryRepo repository.WaitlistEntryRepository,
	leaderboard statistic.Leaderboard,
	notifier mail.Notifier,
	tokenEngine authenticator.TokenEngine[model.AccessToken],
) *adminDomain {
	return &adminDomain{
		entryRepo:     entryRepo,
		leaderboard:   leaderboard,
		notifier:      notifier,
		tokenEngine:   tokenEngine,
		adminVerifier: common.NewAdminVerifier(tokenEngine),
	}
}

func (d *adminDomain) Login(
	ctx context.Context, req *model.AdminLoginRequest,
) (*model.AdminLoginResponse, error) {
	cfg := xcontext.Configs(ctx).Admin
	validUsername := crypto.Equal(req.Username, cfg.Username)
	validPassword := crypto.Equal(req.Password, cfg.Password)
	if cfg.Username == "" || !validUsername || !validPassword {
		xcontext.Logger(ctx).Warnf("Invalid admin login attempt for %q", req.Username)
		return nil, errorx.New(errorx.Unauthenticated, "Invalid credentials")
	}

	token, err := d.tokenEngine.Generate(req.Username, model.AccessToken{
		Username: req.Username,
		Admin:    true,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate access token: %v", err)
		return nil, errorx.Unknown
	}

	return &model.AdminLoginResponse{Success: true, AccessToken: token}, nil
}

func (d *adminDomain) Logout(
	ctx context.Context, req *model.AdminLogoutRequest,
) (*model.AdminLogoutResponse, error) {
	return &model.AdminLogoutResponse{Success: true}, nil
}

func (d *adminDomain) Check(
	ctx context.Context, req *model.AdminCheckRequest,
) (*model.AdminCheckResponse, error) {
	return &model.AdminCheckResponse{IsAuthenticated: d.adminVerifier.Verify(ctx)}, nil
}

func (d *adminDomain) ListEntries(
	ctx context.Context, req *model.AdminListEntriesRequest,
) (*model.AdminListEntriesResponse, error) {
	entries, err := d.getEntries(ctx)
	if err != nil {
		return nil, err
	}

	result := []model.WaitlistEntry{}
	for i := range entries {
		result = append(result, model.ConvertWaitlistEntry(&entries[i]))
	}

	return &model.AdminListEntriesResponse{Entries: result}, nil
}

func (d *adminDomain) ExportEntries(
	ctx context.Context, req *model.AdminExportEntriesRequest,
) (*model.AdminExportEntriesResponse, error) {
	entries, err := d.getEntries(ctx)
	if err != nil {
		return nil, err
	}

	buf := bytes.NewBuffer(nil)
	w := csv.NewWriter(buf)
	if err := w.Write(exportHeader); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot write csv header: %v", err)
		return nil, errorx.Unknown
	}

	for _, entry := range entries {
		err := w.Write([]string{
			strconv.FormatInt(entry.ID, 10),
			entry.Email,
			entry.Name,
			entry.ReferralSource,
			entry.ReferralCode,
			entry.ReferredBy,
			strconv.Itoa(entry.Level),
			strconv.Itoa(entry.Points),
			entry.CreatedAt.Format(model.DefaultTimeLayout),
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot write csv row: %v", err)
			return nil, errorx.Unknown
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot flush csv: %v", err)
		return nil, errorx.Unknown
	}

	return &model.AdminExportEntriesResponse{
		Filename: fmt.Sprintf("waitlist-%s.csv", time.Now().Format("2006-01-02")),
		Data:     buf.Bytes(),
	}, nil
}

func (d *adminDomain) DeleteEntry(
	ctx context.Context, req *model.AdminDeleteEntryRequest,
) (*model.AdminDeleteEntryResponse, error) {
	if req.ID <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Invalid ID format")
	}

	if err := d.entryRepo.Delete(ctx, req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Entry not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot delete waitlist entry %d: %v", req.ID, err)
		return nil, errorx.Unknown
	}

	if err := d.leaderboard.Remove(ctx, req.ID); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot remove entry %d from leaderboard: %v", req.ID, err)
	}

	xcontext.Logger(ctx).Infof("Waitlist entry %d deleted", req.ID)
	return &model.AdminDeleteEntryResponse{Success: true}, nil
}

func (d *adminDomain) SendPromotional(
	ctx context.Context, req *model.SendPromotionalRequest,
) (*model.SendPromotionalResponse, error) {
	if req.Message == "" {
		return nil, errorx.New(errorx.BadRequest, "Message is required")
	}

	sent, total, failed, err := d.broadcast(ctx, func(ctx context.Context, email string) error {
		return d.notifier.SendPromotionalEmail(ctx, email, req.Message)
	})
	if err != nil {
		return nil, err
	}

	return &model.SendPromotionalResponse{
		Message:      fmt.Sprintf("Promotional emails sent to %d of %d subscribers", sent, total),
		FailedEmails: failed,
	}, nil
}

func (d *adminDomain) SendLaunchAnnouncement(
	ctx context.Context, req *model.SendLaunchAnnouncementRequest,
) (*model.SendLaunchAnnouncementResponse, error) {
	sent, total, failed, err := d.broadcast(ctx, d.notifier.SendLaunchEmail)
	if err != nil {
		return nil, err
	}

	return &model.SendLaunchAnnouncementResponse{
		Message:      fmt.Sprintf("Launch announcement emails sent to %d of %d subscribers", sent, total),
		FailedEmails: failed,
	}, nil
}

func (d *adminDomain) getEntries(ctx context.Context) ([]entity.WaitlistEntry, error) {
	entries, err := d.entryRepo.GetList(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get waitlist entries: %v", err)
		return nil, errorx.Unknown
	}

	return entries, nil
}

// broadcast calls send for every entry with a bounded parallelism. A failed
// email never stops the others.
func (d *adminDomain) broadcast(
	ctx context.Context, send func(ctx context.Context, email string) error,
) (int, int, []string, error) {
	entries, err := d.getEntries(ctx)
	if err != nil {
		return 0, 0, nil, err
	}

	if len(entries) == 0 {
		return 0, 0, nil, errorx.New(errorx.NotFound, "No waitlist entries found")
	}

	concurrency := xcontext.Configs(ctx).Email.Concurrency
	if concurrency <= 0 {
		concurrency = defaultEmailConcurrency
	}

	var mutex sync.Mutex
	var failed []string

	g := errgroup.Group{}
	g.SetLimit(concurrency)
	for _, entry := range entries {
		email := entry.Email
		g.Go(func() error {
			if err := send(ctx, email); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot send email to %s: %v", email, err)

				mutex.Lock()
				failed = append(failed, email)
				mutex.Unlock()
			}

			return nil
		})
	}

	// Goroutines never return an error.
	_ = g.Wait()

	sort.Strings(failed)
	return len(entries) - len(failed), len(entries), failed, nil
}
