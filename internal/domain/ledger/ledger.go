package ledger

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/klede-lab/waitlist/internal/common"
	"github.com/klede-lab/waitlist/internal/domain/level"
	"github.com/klede-lab/waitlist/internal/domain/statistic"
	"github.com/klede-lab/waitlist/internal/entity"
	"github.com/klede-lab/waitlist/internal/repository"
	"github.com/klede-lab/waitlist/pkg/errorx"
	"github.com/klede-lab/waitlist/pkg/xcontext"
	"github.com/mitchellh/mapstructure"
	"github.com/puzpuzpuz/xsync"
	"gorm.io/gorm"
)

type Result struct {
	Entry            *entity.WaitlistEntry
	Task             *entity.Task
	AlreadyCompleted bool
	LevelUp          level.Result
}

type SignupResult struct {
	Entry *Result

	// Referrer is nil when the entry was not referred or the referrer could
	// not be credited.
	Referrer *Result
}

type requirements struct {
	ProofRequired bool `mapstructure:"proof_required"`
}

// Ledger awards task points exactly once per task and entry. Completions of
// the same entry are serialized, distinct entries run in parallel.
type Ledger struct {
	entryRepo   repository.WaitlistEntryRepository
	taskRepo    repository.TaskRepository
	engine      *level.Engine
	leaderboard statistic.Leaderboard

	locks *xsync.MapOf[string, *sync.Mutex]
}

func New(
	entryRepo repository.WaitlistEntryRepository,
	taskRepo repository.TaskRepository,
	engine *level.Engine,
	leaderboard statistic.Leaderboard,
) *Ledger {
	return &Ledger{
		entryRepo:   entryRepo,
		taskRepo:    taskRepo,
		engine:      engine,
		leaderboard: leaderboard,
		locks:       xsync.NewMapOf[*sync.Mutex](),
	}
}

func (l *Ledger) lock(email string) func() {
	mutex, _ := l.locks.LoadOrStore(email, &sync.Mutex{})
	mutex.Lock()
	return mutex.Unlock
}

// CompleteTask completes the task for the entry identified by email. Completing
// an already completed task is not an error, the entry is returned unchanged.
func (l *Ledger) CompleteTask(ctx context.Context, email string, taskID int, proof string) (*Result, error) {
	task, err := l.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Task not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get task: %v", err)
		return nil, errorx.Unknown
	}

	if !task.IsActive {
		return nil, errorx.New(errorx.BadRequest, "Task is not active")
	}

	var req requirements
	if err := mapstructure.WeakDecode(map[string]any(task.Requirements), &req); err != nil {
		xcontext.Logger(ctx).Errorf("Invalid requirements of task %d: %v", task.ID, err)
		return nil, errorx.Unknown
	}

	if req.ProofRequired && strings.TrimSpace(proof) == "" {
		return nil, errorx.New(errorx.BadRequest, "Task %d requires a proof of completion", task.ID)
	}

	return l.completeByEmail(ctx, email, task)
}

// CompleteSignup completes the signup task of a new entry and, if it was
// referred, the referral task of the referrer. Both tasks are looked up by
// type. It must be called outside of any database transaction.
func (l *Ledger) CompleteSignup(
	ctx context.Context,
	entry *entity.WaitlistEntry,
	referrer *entity.WaitlistEntry,
) (*SignupResult, error) {
	result := &SignupResult{}

	signupTask, err := l.getTaskByType(ctx, entity.TaskTypeSignup)
	if err != nil {
		return nil, err
	}

	if signupTask != nil {
		result.Entry, err = l.completeByEmail(ctx, entry.Email, signupTask)
		if err != nil {
			return nil, err
		}
	} else {
		result.Entry = &Result{Entry: entry}
	}

	if referrer == nil {
		return result, nil
	}

	referralTask, err := l.getTaskByType(ctx, entity.TaskTypeReferral)
	if err != nil || referralTask == nil {
		return result, nil
	}

	// The referee already exists at this point, so a referrer failure only
	// loses the credit.
	result.Referrer, err = l.completeByEmail(ctx, referrer.Email, referralTask)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot credit referrer %s: %v", referrer.Email, err)
		result.Referrer = nil
	}

	return result, nil
}

func (l *Ledger) getTaskByType(ctx context.Context, taskType entity.TaskType) (*entity.Task, error) {
	task, err := l.taskRepo.GetByType(ctx, taskType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Warnf("No active task of type %s", taskType)
			return nil, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get task of type %s: %v", taskType, err)
		return nil, errorx.Unknown
	}

	return task, nil
}

func (l *Ledger) completeByEmail(ctx context.Context, email string, task *entity.Task) (result *Result, err error) {
	unlock := l.lock(email)
	defer unlock()

	txCtx := xcontext.WithDBTransaction(ctx)
	defer func() {
		if err != nil {
			xcontext.WithRollbackDBTransaction(txCtx)
		}
	}()

	entry, err := l.entryRepo.GetByEmail(txCtx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "User not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get waitlist entry: %v", err)
		return nil, errorx.Unknown
	}

	if entry.HasCompleted(task.ID) {
		xcontext.WithRollbackDBTransaction(txCtx)
		return &Result{Entry: entry, Task: task, AlreadyCompleted: true}, nil
	}

	entry.MarkCompleted(task.ID)
	entry.Points += task.PointsAwarded
	entry.LastInteractionAt = time.Now()
	levelUp := l.engine.Apply(entry)

	if err := l.entryRepo.Update(txCtx, entry); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update waitlist entry %s: %v", email, err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(txCtx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit task completion: %v", err)
		return nil, errorx.Unknown
	}

	if err := l.leaderboard.Increase(ctx, entry.ID, task.PointsAwarded); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot update leaderboard: %v", err)
	}

	common.IncCounter(common.TaskCompletionsTotal, string(task.Type))
	if levelUp.LeveledUp {
		common.IncCounter(common.LevelUpsTotal, strconv.Itoa(levelUp.NewLevel))
	}

	return &Result{Entry: entry, Task: task, LevelUp: levelUp}, nil
}
