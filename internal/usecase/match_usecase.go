package usecase

import (
	"context"
	"errors"
	"time"

	"skillswap/internal/config"
	"skillswap/internal/domain/match"
	"skillswap/internal/domain/matching"
	"skillswap/internal/domain/notification"
	"skillswap/internal/domain/user"
	"skillswap/internal/pkg/workerpool"
	"skillswap/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var ErrGenerationInProgress = errors.New("match generation already running")

const (
	defaultMatchWorkers = 8
	defaultLockTTL      = 30 * time.Second
	DefaultMatchLimit   = 20
	MaxMatchLimit       = 100
)

// GenerateResult reports one generation run. Skipped counts candidates that
// already had a match row, including rows created concurrently.
type GenerateResult struct {
	Created   []match.Match
	Evaluated int
	Skipped   int
	Failed    int
}

type LikeResult struct {
	Match  match.Match
	Mutual bool
}

// MatchView is a match row with its partner's public summary.
type MatchView struct {
	Match   match.Match
	Partner user.Summary
}

type MatchUsecase interface {
	GenerateMatches(ctx context.Context, userID uuid.UUID) (GenerateResult, error)
	GenerateAll(ctx context.Context, concurrency int) (map[uuid.UUID]GenerateResult, error)
	Like(ctx context.Context, actor, matchID uuid.UUID) (LikeResult, error)
	Pass(ctx context.Context, actor, matchID uuid.UUID) (match.Match, error)
	List(ctx context.Context, userID uuid.UUID, status string, limit, offset int) ([]MatchView, int, error)
}

type Matches struct {
	users    user.Repository
	matches  repository.MatchRepository
	cache    Cache
	notifier Notifier
	logger   logrus.FieldLogger

	threshold float64
	workers   int
	lockTTL   time.Duration
	now       func() time.Time
}

func NewMatchUsecase(users user.Repository, matches repository.MatchRepository, cache Cache, notifier Notifier, cfg config.MatchingConfig, logger logrus.FieldLogger) *Matches {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	m := &Matches{
		users:     users,
		matches:   matches,
		cache:     cache,
		notifier:  notifier,
		logger:    logger.WithField("component", "match"),
		threshold: cfg.AcceptThreshold,
		workers:   cfg.Workers,
		lockTTL:   cfg.LockTTL,
		now:       time.Now,
	}
	if m.threshold <= 0 {
		m.threshold = matching.DefaultAcceptThreshold
	}
	if m.workers <= 0 {
		m.workers = defaultMatchWorkers
	}
	if m.lockTTL <= 0 {
		m.lockTTL = defaultLockTTL
	}
	return m
}

func (u *Matches) GenerateMatches(ctx context.Context, userID uuid.UUID) (GenerateResult, error) {
	if userID == uuid.Nil {
		return GenerateResult{}, ErrUnauthorized
	}

	me, err := u.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return GenerateResult{}, ErrUserNotFound
		}
		return GenerateResult{}, ErrInternal
	}

	release, err := u.acquireGenerateLock(ctx, userID)
	if err != nil {
		return GenerateResult{}, err
	}
	defer release()

	log := u.logger.WithField("user_id", userID)

	candidates, err := u.users.ListActiveExcept(ctx, userID)
	if err != nil {
		log.WithError(err).Error("load candidates failed")
		return GenerateResult{}, ErrInternal
	}
	existing, err := u.matches.ExistingPartnerIDs(ctx, userID)
	if err != nil {
		log.WithError(err).Error("load existing matches failed")
		return GenerateResult{}, ErrInternal
	}

	res := GenerateResult{Created: []match.Match{}}
	pending := make([]user.User, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := existing[c.ID]; ok {
			res.Skipped++
			continue
		}
		pending = append(pending, c)
	}
	res.Evaluated = len(pending)

	scores, _ := workerpool.Map(ctx, u.workers, pending, func(_ context.Context, c user.User) (matching.CandidateResult, error) {
		return matching.CandidateScore(me, c, u.threshold), nil
	})
	if err := ctx.Err(); err != nil {
		return GenerateResult{}, err
	}

	now := u.now()
	accepted := make([]match.Match, 0)
	for i, sc := range scores {
		if !sc.Accepted {
			continue
		}
		accepted = append(accepted, match.New(userID, pending[i].ID, sc.Score, sc.Reason, now))
	}

	inserted, failed := u.matches.InsertMatches(ctx, accepted)
	for partnerID, ferr := range failed {
		log.WithError(ferr).WithField("partner_id", partnerID).Warn("insert match failed")
	}
	res.Created = inserted
	res.Failed = len(failed)
	res.Skipped += len(accepted) - len(inserted) - len(failed)

	log.WithFields(logrus.Fields{
		"evaluated": res.Evaluated,
		"created":   len(res.Created),
		"skipped":   res.Skipped,
		"failed":    res.Failed,
	}).Info("matches generated")

	return res, nil
}

// acquireGenerateLock takes the per-user single-flight lock. Without redis
// the run proceeds and the unique constraint keeps rows unique.
func (u *Matches) acquireGenerateLock(ctx context.Context, userID uuid.UUID) (func(), error) {
	noop := func() {}
	if u.cache == nil || !u.cache.Available() {
		return noop, nil
	}
	key := GenerateLockKey(userID)
	ok, err := u.cache.SetIfNotExists(ctx, key, "1", u.lockTTL)
	if err != nil {
		u.logger.WithError(err).Warn("generate lock unavailable, continuing")
		return noop, nil
	}
	if !ok {
		return nil, ErrGenerationInProgress
	}
	return func() {
		_ = u.cache.Delete(context.WithoutCancel(ctx), key)
	}, nil
}

// GenerateAll runs GenerateMatches for every active user, at most
// concurrency at a time. Users already being generated elsewhere are skipped.
func (u *Matches) GenerateAll(ctx context.Context, concurrency int) (map[uuid.UUID]GenerateResult, error) {
	ids, err := u.users.ListActiveIDs(ctx)
	if err != nil {
		return nil, ErrInternal
	}
	if concurrency <= 0 {
		concurrency = 4
	}

	results := make([]GenerateResult, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, id := range ids {
		g.Go(func() error {
			r, err := u.GenerateMatches(gctx, id)
			if errors.Is(err, ErrGenerationInProgress) {
				return nil
			}
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID]GenerateResult, len(ids))
	for i, id := range ids {
		out[id] = results[i]
	}
	return out, nil
}

func (u *Matches) loadOwned(ctx context.Context, actor, matchID uuid.UUID) (match.Match, error) {
	if actor == uuid.Nil {
		return match.Match{}, ErrUnauthorized
	}
	m, err := u.matches.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, match.ErrNotFound) {
			return match.Match{}, ErrNotFound
		}
		return match.Match{}, ErrInternal
	}
	if m.UserID != actor {
		return match.Match{}, ErrForbidden
	}
	return m, nil
}

func (u *Matches) Like(ctx context.Context, actor, matchID uuid.UUID) (LikeResult, error) {
	m, err := u.loadOwned(ctx, actor, matchID)
	if err != nil {
		return LikeResult{}, err
	}

	var res match.Resolution
	var wasMatched bool
	err = u.matches.WithPairLock(ctx, m.UserID, m.PartnerID, func(tx repository.MatchTx) error {
		cur, err := tx.GetByID(ctx, matchID)
		if err != nil {
			return err
		}
		inverse, err := tx.GetByPair(ctx, cur.PartnerID, cur.UserID)
		if err != nil {
			return err
		}
		wasMatched = cur.Status == match.StatusMatched

		res, err = match.Like(cur, inverse, actor, u.now())
		if err != nil {
			return err
		}
		if err := tx.Update(ctx, res.Match); err != nil {
			return err
		}
		if res.Inverse != nil {
			return tx.Update(ctx, *res.Inverse)
		}
		return nil
	})
	if err != nil {
		return LikeResult{}, u.mapResolveError(err, matchID)
	}

	if res.Mutual && !wasMatched {
		u.notifyMutual(ctx, res)
	}
	return LikeResult{Match: res.Match, Mutual: res.Mutual}, nil
}

func (u *Matches) Pass(ctx context.Context, actor, matchID uuid.UUID) (match.Match, error) {
	m, err := u.loadOwned(ctx, actor, matchID)
	if err != nil {
		return match.Match{}, err
	}

	var out match.Match
	err = u.matches.WithPairLock(ctx, m.UserID, m.PartnerID, func(tx repository.MatchTx) error {
		cur, err := tx.GetByID(ctx, matchID)
		if err != nil {
			return err
		}
		out, err = match.Pass(cur, actor, u.now())
		if err != nil {
			return err
		}
		return tx.Update(ctx, out)
	})
	if err != nil {
		return match.Match{}, u.mapResolveError(err, matchID)
	}
	return out, nil
}

func (u *Matches) mapResolveError(err error, matchID uuid.UUID) error {
	switch {
	case errors.Is(err, match.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, match.ErrForbidden):
		return ErrForbidden
	default:
		u.logger.WithError(err).WithField("match_id", matchID).Error("resolve match failed")
		return ErrInternal
	}
}

func (u *Matches) notifyMutual(ctx context.Context, res match.Resolution) {
	if u.notifier == nil || res.Inverse == nil {
		return
	}
	a, b := res.Match.UserID, res.Match.PartnerID
	names, err := u.users.GetSummaries(ctx, []uuid.UUID{a, b})
	if err != nil {
		u.logger.WithError(err).Warn("load names for match notification failed")
		names = map[uuid.UUID]user.Summary{}
	}
	nameOf := func(id uuid.UUID) string {
		if s, ok := names[id]; ok && s.Name != "" {
			return s.Name
		}
		return "your match"
	}

	u.notifier.Notify(ctx, notification.Match(a, res.Match.ID, nameOf(b)))
	u.notifier.Notify(ctx, notification.Match(b, res.Inverse.ID, nameOf(a)))
}

func (u *Matches) List(ctx context.Context, userID uuid.UUID, status string, limit, offset int) ([]MatchView, int, error) {
	st := match.StatusPending
	if status != "" {
		var ok bool
		if st, ok = match.ParseStatus(status); !ok {
			return nil, 0, ErrInvalidInput
		}
	}
	if limit == 0 {
		limit = DefaultMatchLimit
	}
	if limit < 1 || limit > MaxMatchLimit || offset < 0 {
		return nil, 0, ErrInvalidInput
	}

	items, total, err := u.matches.ListForUser(ctx, repository.MatchFilter{UserID: userID, Status: st, Limit: limit, Offset: offset})
	if err != nil {
		return nil, 0, ErrInternal
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, m := range items {
		ids = append(ids, m.PartnerID)
	}
	partners, err := u.users.GetSummaries(ctx, ids)
	if err != nil {
		return nil, 0, ErrInternal
	}

	out := make([]MatchView, 0, len(items))
	for _, m := range items {
		p, ok := partners[m.PartnerID]
		if !ok {
			p = user.Summary{ID: m.PartnerID}
		}
		out = append(out, MatchView{Match: m, Partner: p})
	}
	return out, total, nil
}
