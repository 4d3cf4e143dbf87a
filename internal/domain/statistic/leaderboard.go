package statistic

import (
	"context"
	"strconv"

	"github.com/klede-lab/waitlist/internal/entity"
	"github.com/klede-lab/waitlist/internal/repository"
	"github.com/klede-lab/waitlist/pkg/errorx"
	"github.com/klede-lab/waitlist/pkg/xcontext"
	"github.com/klede-lab/waitlist/pkg/xredis"
	"github.com/redis/go-redis/v9"
)

const leaderboardKey = "waitlist:leaderboard"

type Leaderboard interface {
	// Top returns at most limit entries ordered by points descending.
	Top(ctx context.Context, limit int) ([]entity.WaitlistEntry, error)
	Increase(ctx context.Context, entryID int64, points int) error
	Remove(ctx context.Context, entryID int64) error
}

type dbLeaderboard struct {
	entryRepo repository.WaitlistEntryRepository
}

// NewDBLeaderboard returns a leaderboard which queries the store directly.
func NewDBLeaderboard(entryRepo repository.WaitlistEntryRepository) *dbLeaderboard {
	return &dbLeaderboard{entryRepo: entryRepo}
}

func (l *dbLeaderboard) Top(ctx context.Context, limit int) ([]entity.WaitlistEntry, error) {
	entries, err := l.entryRepo.GetTopByPoints(ctx, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get top entries: %v", err)
		return nil, errorx.Unknown
	}

	return entries, nil
}

func (l *dbLeaderboard) Increase(context.Context, int64, int) error {
	return nil
}

func (l *dbLeaderboard) Remove(context.Context, int64) error {
	return nil
}

type redisLeaderboard struct {
	entryRepo   repository.WaitlistEntryRepository
	redisClient xredis.Client
}

// NewRedisLeaderboard returns a leaderboard cached in a redis sorted set. The
// set is loaded from the store when it does not exist.
func NewRedisLeaderboard(
	entryRepo repository.WaitlistEntryRepository,
	redisClient xredis.Client,
) *redisLeaderboard {
	return &redisLeaderboard{entryRepo: entryRepo, redisClient: redisClient}
}

func (l *redisLeaderboard) Top(ctx context.Context, limit int) ([]entity.WaitlistEntry, error) {
	ok, err := l.redisClient.Exist(ctx, leaderboardKey)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
		return nil, errorx.Unknown
	}

	// If the key didn't exist in redis, load it from database.
	if !ok {
		if err := l.loadFromDB(ctx); err != nil {
			return nil, err
		}
	}

	results, err := l.redisClient.ZRevRangeWithScores(ctx, leaderboardKey, 0, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get revrange redis: %v", err)
		return nil, errorx.Unknown
	}

	ids := []int64{}
	for _, z := range results {
		member, _ := z.Member.(string)
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Invalid leaderboard member %v: %v", z.Member, err)
			continue
		}

		ids = append(ids, id)
	}

	entries, err := l.entryRepo.GetByIDs(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get entries of leaderboard: %v", err)
		return nil, errorx.Unknown
	}

	entrySet := map[int64]entity.WaitlistEntry{}
	for _, e := range entries {
		entrySet[e.ID] = e
	}

	// Keep the order of redis, entries deleted meanwhile are skipped.
	result := []entity.WaitlistEntry{}
	for _, id := range ids {
		if e, ok := entrySet[id]; ok {
			result = append(result, e)
		}
	}

	return result, nil
}

func (l *redisLeaderboard) Increase(ctx context.Context, entryID int64, points int) error {
	ok, err := l.redisClient.Exist(ctx, leaderboardKey)
	if err != nil {
		return err
	}

	// A missing set is loaded from the store later, it already contains the
	// points.
	if !ok {
		return nil
	}

	return l.redisClient.ZIncrBy(ctx, leaderboardKey, int64(points), strconv.FormatInt(entryID, 10))
}

func (l *redisLeaderboard) Remove(ctx context.Context, entryID int64) error {
	return l.redisClient.ZRem(ctx, leaderboardKey, strconv.FormatInt(entryID, 10))
}

// Invalidate drops the cached set, the next Top reloads it from the store.
func (l *redisLeaderboard) Invalidate(ctx context.Context) error {
	return l.redisClient.Del(ctx, leaderboardKey)
}

func (l *redisLeaderboard) loadFromDB(ctx context.Context) error {
	entries, err := l.entryRepo.GetList(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load entries for leaderboard: %v", err)
		return errorx.Unknown
	}

	members := []redis.Z{}
	for _, e := range entries {
		members = append(members, redis.Z{
			Score:  float64(e.Points),
			Member: strconv.FormatInt(e.ID, 10),
		})
	}

	if err := l.redisClient.ZAdd(ctx, leaderboardKey, members...); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load leaderboard to redis: %v", err)
		return errorx.Unknown
	}

	return nil
}
