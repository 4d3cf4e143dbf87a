package domain

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/klede-lab/waitlist/internal/common"
	"github.com/klede-lab/waitlist/internal/domain/ledger"
	"github.com/klede-lab/waitlist/internal/domain/level"
	"github.com/klede-lab/waitlist/internal/domain/mail"
	"github.com/klede-lab/waitlist/internal/domain/referral"
	"github.com/klede-lab/waitlist/internal/domain/statistic"
	"github.com/klede-lab/waitlist/internal/entity"
	"github.com/klede-lab/waitlist/internal/model"
	"github.com/klede-lab/waitlist/internal/repository"
	"github.com/klede-lab/waitlist/pkg/errorx"
	"github.com/klede-lab/waitlist/pkg/pubsub"
	"github.com/klede-lab/waitlist/pkg/xcontext"
	"gorm.io/gorm"
)

const (
	leaderboardSize   = 10
	maxCreateAttempts = 3
)

type WaitlistDomain interface {
	Signup(context.Context, *model.SignupRequest) (*model.SignupResponse, error)
	CompleteTask(context.Context, *model.CompleteTaskRequest) (*model.CompleteTaskResponse, error)
	GetProfile(context.Context, *model.GetProfileRequest) (*model.GetProfileResponse, error)
	GetReferral(context.Context, *model.GetReferralRequest) (*model.GetReferralResponse, error)
	GetLeaderboard(context.Context, *model.GetLeaderboardRequest) (*model.GetLeaderboardResponse, error)
	GetLevels(context.Context, *model.GetLevelsRequest) (*model.GetLevelsResponse, error)
	GetTasks(context.Context, *model.GetTasksRequest) (*model.GetTasksResponse, error)

	// Wait blocks until background jobs started by requests are done or ctx
	// is cancelled.
	Wait(ctx context.Context) error
}

type waitlistDomain struct {
	entryRepo   repository.WaitlistEntryRepository
	taskRepo    repository.TaskRepository
	rewardRepo  repository.RewardRepository
	resolver    *referral.Resolver
	ledger      *ledger.Ledger
	levelTable  *level.Table
	leaderboard statistic.Leaderboard
	notifier    mail.Notifier
	publisher   pubsub.Publisher

	background sync.WaitGroup
}

func NewWaitlistDomain(
	entryRepo repository.WaitlistEntryRepository,
	taskRepo repository.TaskRepository,
	rewardRepo repository.RewardRepository,
	ledger *ledger.Ledger,
	levelTable *level.Table,
	leaderboard statistic.Leaderboard,
	notifier mail.Notifier,
	publisher pubsub.Publisher,
) *waitlistDomain {
	return &waitlistDomain{
		entryRepo:   entryRepo,
		taskRepo:    taskRepo,
		rewardRepo:  rewardRepo,
		resolver:    referral.NewResolver(entryRepo),
		ledger:      ledger,
		levelTable:  levelTable,
		leaderboard: leaderboard,
		notifier:    notifier,
		publisher:   publisher,
	}
}

func (d *waitlistDomain) Signup(
	ctx context.Context, req *model.SignupRequest,
) (*model.SignupResponse, error) {
	if !common.IsValidEmail(req.Email) {
		return nil, errorx.New(errorx.BadRequest, "Invalid email address")
	}

	_, err := d.entryRepo.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "This email is already on the waitlist")
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get waitlist entry: %v", err)
		return nil, errorx.Unknown
	}

	var referrer *entity.WaitlistEntry
	if req.ReferralCode != "" {
		referrer, err = d.resolver.Resolve(ctx, req.ReferralCode)
		if err != nil {
			if !errorx.Is(err, errorx.NotFound) {
				return nil, err
			}

			xcontext.Logger(ctx).Infof("Unknown referral code %s, continue without referral", req.ReferralCode)
			referrer = nil
		}
	}

	now := time.Now()
	entry := &entity.WaitlistEntry{
		Email:             req.Email,
		Name:              req.Name,
		ReferralSource:    req.ReferralSource,
		Level:             d.levelTable.LevelFor(0),
		TaskCompletions:   entity.Flags{},
		UnlockedRewards:   entity.Array[string]{},
		LastInteractionAt: now,
	}

	if referrer != nil {
		entry.ReferredBy = referrer.ReferralCode
	}

	if err := d.createEntry(ctx, entry); err != nil {
		return nil, err
	}

	result, err := d.ledger.CompleteSignup(ctx, entry, referrer)
	if err != nil {
		// Without the signup award the entry is incomplete, remove it so the
		// email can sign up again.
		if err := d.entryRepo.Delete(ctx, entry.ID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot remove incomplete waitlist entry %d: %v", entry.ID, err)
		}

		return nil, err
	}

	common.IncCounter(common.WaitlistSignupsTotal, strconv.FormatBool(referrer != nil))
	xcontext.Logger(ctx).Infof("New waitlist entry %d (referred: %t)", entry.ID, referrer != nil)

	d.sendWelcomeEmail(ctx, result.Entry.Entry)

	d.publish(ctx, model.SignupTopic, result.Entry.Entry, model.GamificationEvent{
		ReferredBy: result.Entry.Entry.ReferredBy,
	})
	d.publishResult(ctx, result.Entry)
	d.publishResult(ctx, result.Referrer)

	return &model.SignupResponse{
		Message: "Successfully added to waitlist",
		Entry:   model.ConvertWaitlistEntry(result.Entry.Entry),
	}, nil
}

// createEntry stores the entry with a fresh referral code. A referral code
// taken concurrently by another signup is regenerated.
func (d *waitlistDomain) createEntry(ctx context.Context, entry *entity.WaitlistEntry) error {
	for i := 0; i < maxCreateAttempts; i++ {
		code, err := d.resolver.NewCode(ctx, entry.Email)
		if err != nil {
			return err
		}

		entry.ReferralCode = code
		err = d.entryRepo.Create(ctx, entry)
		if err == nil {
			return nil
		}

		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			xcontext.Logger(ctx).Errorf("Cannot create waitlist entry: %v", err)
			return errorx.Unknown
		}

		_, err = d.entryRepo.GetByEmail(ctx, entry.Email)
		if err == nil {
			return errorx.New(errorx.AlreadyExists, "This email is already on the waitlist")
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get waitlist entry: %v", err)
			return errorx.Unknown
		}

		xcontext.Logger(ctx).Warnf("Referral code %s was taken during signup, retry", code)
	}

	xcontext.Logger(ctx).Errorf("Cannot create waitlist entry %s: no free referral code", entry.Email)
	return errorx.Unknown
}

func (d *waitlistDomain) CompleteTask(
	ctx context.Context, req *model.CompleteTaskRequest,
) (*model.CompleteTaskResponse, error) {
	if req.Email == "" {
		return nil, errorx.New(errorx.BadRequest, "Email is required")
	}

	if req.TaskID <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Invalid task id")
	}

	result, err := d.ledger.CompleteTask(ctx, req.Email, req.TaskID, req.ProofOfCompletion)
	if err != nil {
		return nil, err
	}

	d.publishResult(ctx, result)

	resp := &model.CompleteTaskResponse{
		Success:          true,
		AlreadyCompleted: result.AlreadyCompleted,
		UpdatedEntry:     model.ConvertWaitlistEntry(result.Entry),
		LevelUp:          result.LevelUp.LeveledUp,
		UnlockedRewards:  []string{},
	}

	if result.LevelUp.LeveledUp {
		resp.NewLevel = result.LevelUp.NewLevel
		resp.UnlockedRewards = result.LevelUp.UnlockedRewards
	}

	return resp, nil
}

func (d *waitlistDomain) GetProfile(
	ctx context.Context, req *model.GetProfileRequest,
) (*model.GetProfileResponse, error) {
	if req.Email == "" {
		return nil, errorx.New(errorx.BadRequest, "Email is required")
	}

	entry, err := d.entryRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "User not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get waitlist entry: %v", err)
		return nil, errorx.Unknown
	}

	rewards, err := d.rewardRepo.GetByLevel(ctx, entry.Level)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get rewards of level %d: %v", entry.Level, err)
		return nil, errorx.Unknown
	}

	tasks, err := d.taskRepo.GetActive(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get active tasks: %v", err)
		return nil, errorx.Unknown
	}

	profileTasks := []model.ProfileTask{}
	for i := range tasks {
		profileTasks = append(profileTasks, model.ProfileTask{
			Task:      model.ConvertTask(&tasks[i]),
			Completed: entry.HasCompleted(tasks[i].ID),
		})
	}

	progress := d.levelTable.Progress(entry.Level, entry.Points)
	convertedEntry := model.ConvertWaitlistEntry(entry)

	return &model.GetProfileResponse{
		WaitlistEntry: convertedEntry,
		Tasks:         profileTasks,
		Rewards:       model.ConvertRewards(rewards),
		Gamification: model.Gamification{
			CurrentLevel:    progress.CurrentLevel,
			CurrentPoints:   progress.CurrentPoints,
			NextLevelPoints: progress.NextLevelPoints,
			LevelProgress:   progress.LevelProgress,
			UnlockedRewards: convertedEntry.UnlockedRewards,
		},
	}, nil
}

func (d *waitlistDomain) GetReferral(
	ctx context.Context, req *model.GetReferralRequest,
) (*model.GetReferralResponse, error) {
	referrer, err := d.resolver.Resolve(ctx, req.ReferralCode)
	if err != nil {
		return nil, err
	}

	return &model.GetReferralResponse{
		ReferralCode: req.ReferralCode,
		ReferrerName: referrer.Name,
		Valid:        true,
	}, nil
}

func (d *waitlistDomain) GetLeaderboard(
	ctx context.Context, req *model.GetLeaderboardRequest,
) (*model.GetLeaderboardResponse, error) {
	entries, err := d.leaderboard.Top(ctx, leaderboardSize)
	if err != nil {
		return nil, err
	}

	items := []model.LeaderboardItem{}
	for _, entry := range entries {
		items = append(items, model.LeaderboardItem{
			Name:   common.DisplayName(entry.Name),
			Email:  common.MaskEmail(entry.Email),
			Level:  entry.Level,
			Points: entry.Points,
		})
	}

	return &model.GetLeaderboardResponse{Leaderboard: items}, nil
}

func (d *waitlistDomain) GetLevels(
	ctx context.Context, req *model.GetLevelsRequest,
) (*model.GetLevelsResponse, error) {
	// Disabled rewards are listed too, flagged by isActive.
	rewards, err := d.rewardRepo.GetAll(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get rewards: %v", err)
		return nil, errorx.Unknown
	}

	levels := []model.Level{}
	for _, threshold := range d.levelTable.Thresholds() {
		details := []model.Reward{}
		for i := range rewards {
			if rewards[i].RequiredLevel == threshold.Level {
				details = append(details, model.ConvertReward(&rewards[i]))
			}
		}

		levels = append(levels, model.Level{
			Level:          threshold.Level,
			RequiredPoints: threshold.RequiredPoints,
			Rewards:        threshold.Rewards,
			RewardsDetails: details,
		})
	}

	return &model.GetLevelsResponse{Levels: levels}, nil
}

func (d *waitlistDomain) GetTasks(
	ctx context.Context, req *model.GetTasksRequest,
) (*model.GetTasksResponse, error) {
	tasks, err := d.taskRepo.GetActive(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get active tasks: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.Task{}
	for i := range tasks {
		result = append(result, model.ConvertTask(&tasks[i]))
	}

	return &model.GetTasksResponse{Tasks: result}, nil
}

func (d *waitlistDomain) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.background.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// sendWelcomeEmail sends the welcome email in background. The request may be
// finished before the email is sent.
func (d *waitlistDomain) sendWelcomeEmail(ctx context.Context, entry *entity.WaitlistEntry) {
	ctx = context.WithoutCancel(ctx)
	entryID, email := entry.ID, entry.Email

	d.background.Add(1)
	go func() {
		defer d.background.Done()

		if err := d.notifier.SendWelcomeEmail(ctx, email); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot send welcome email to %s: %v", email, err)
			return
		}

		if err := d.entryRepo.MarkWelcomeEmailSent(ctx, entryID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot mark welcome email of entry %d: %v", entryID, err)
			return
		}

		xcontext.Logger(ctx).Infof("Welcome email sent to %s", email)
	}()
}

func (d *waitlistDomain) publishResult(ctx context.Context, result *ledger.Result) {
	if result == nil || result.Task == nil || result.AlreadyCompleted {
		return
	}

	d.publish(ctx, model.TaskCompletedTopic, result.Entry, model.GamificationEvent{
		TaskID:        result.Task.ID,
		PointsAwarded: result.Task.PointsAwarded,
	})

	if result.LevelUp.LeveledUp {
		d.publish(ctx, model.LevelUpTopic, result.Entry, model.GamificationEvent{
			UnlockedRewards: result.LevelUp.UnlockedRewards,
		})
	}
}

func (d *waitlistDomain) publish(
	ctx context.Context, topic string, entry *entity.WaitlistEntry, event model.GamificationEvent,
) {
	event.EntryID = entry.ID
	event.Email = entry.Email
	event.Points = entry.Points
	event.Level = entry.Level
	event.RequestID = xcontext.RequestID(ctx)
	event.Timestamp = time.Now().Format(model.DefaultTimeLayout)

	b, err := json.Marshal(event)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal %s event: %v", topic, err)
		return
	}

	err = d.publisher.Publish(ctx, topic, &pubsub.Pack{
		Key: []byte(strconv.FormatInt(entry.ID, 10)),
		Msg: b,
	})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot publish %s event: %v", topic, err)
	}
}
