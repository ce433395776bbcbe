package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"skillswap/internal/domain/match"
	"skillswap/internal/domain/notification"
	"skillswap/internal/domain/review"
	"skillswap/internal/domain/session"
	"skillswap/internal/domain/skill"
	"skillswap/internal/domain/user"
	"skillswap/internal/repository"

	"github.com/google/uuid"
)

func mkSkill(name string, cat skill.Category, lvl skill.Level, offering bool) skill.Skill {
	return skill.Skill{ID: uuid.New(), Name: name, Category: cat, Level: lvl, Offering: offering}
}

func mkUser(name string, skills ...skill.Skill) user.User {
	return user.User{ID: uuid.New(), Name: name, Email: strings.ToLower(name) + "@example.com", IsActive: true, Skills: skills}
}

type fakeUsers struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]user.User
	order []uuid.UUID
	err   error
}

func newFakeUsers(us ...user.User) *fakeUsers {
	f := &fakeUsers{byID: make(map[uuid.UUID]user.User)}
	for _, u := range us {
		f.put(u)
	}
	return f
}

func (f *fakeUsers) put(u user.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[u.ID]; !ok {
		f.order = append(f.order, u.ID)
	}
	f.byID[u.ID] = u
}

func (f *fakeUsers) CreateUser(_ context.Context, u user.User) error {
	f.put(u)
	return nil
}

func (f *fakeUsers) GetUserByID(_ context.Context, id uuid.UUID) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return user.User{}, f.err
	}
	u, ok := f.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (f *fakeUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := f.GetUserByEmail(ctx, email)
	return err == nil, nil
}

func (f *fakeUsers) UpdateUser(_ context.Context, u user.User) error {
	f.put(u)
	return nil
}

func (f *fakeUsers) ListActiveExcept(_ context.Context, id uuid.UUID) ([]user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]user.User, 0)
	for _, uid := range f.order {
		u := f.byID[uid]
		if uid != id && u.IsActive {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUsers) ListActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	us, _ := f.ListActiveExcept(ctx, uuid.Nil)
	ids := make([]uuid.UUID, 0, len(us))
	for _, u := range us {
		ids = append(ids, u.ID)
	}
	return ids, nil
}

func (f *fakeUsers) Search(ctx context.Context, flt user.DirectoryFilter) ([]user.User, int, error) {
	us, _ := f.ListActiveExcept(ctx, flt.ExcludeID)
	return us, len(us), nil
}

func (f *fakeUsers) GetSummaries(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]user.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[uuid.UUID]user.Summary)
	for _, id := range ids {
		if u, ok := f.byID[id]; ok {
			out[id] = u.Summary()
		}
	}
	return out, nil
}

type pairKey struct{ user, partner uuid.UUID }

// fakeMatches serializes every pair-locked section behind one mutex.
type fakeMatches struct {
	mu       sync.Mutex
	lock     sync.Mutex
	rows     map[uuid.UUID]match.Match
	pairs    map[pairKey]uuid.UUID
	failFor  map[uuid.UUID]error
	conflict map[uuid.UUID]bool
}

func newFakeMatches() *fakeMatches {
	return &fakeMatches{
		rows:     make(map[uuid.UUID]match.Match),
		pairs:    make(map[pairKey]uuid.UUID),
		failFor:  make(map[uuid.UUID]error),
		conflict: make(map[uuid.UUID]bool),
	}
}

func (f *fakeMatches) seed(m match.Match) match.Match {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[m.ID] = m
	f.pairs[pairKey{m.UserID, m.PartnerID}] = m.ID
	return m
}

func (f *fakeMatches) get(id uuid.UUID) match.Match {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[id]
}

func (f *fakeMatches) GetByID(_ context.Context, id uuid.UUID) (match.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.rows[id]
	if !ok {
		return match.Match{}, match.ErrNotFound
	}
	return m, nil
}

func (f *fakeMatches) GetByPair(_ context.Context, userID, partnerID uuid.UUID) (*match.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.pairs[pairKey{userID, partnerID}]
	if !ok {
		return nil, nil
	}
	m := f.rows[id]
	return &m, nil
}

func (f *fakeMatches) Update(_ context.Context, m match.Match) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[m.ID]; !ok {
		return match.ErrNotFound
	}
	f.rows[m.ID] = m
	return nil
}

func (f *fakeMatches) Exists(_ context.Context, userID, partnerID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.pairs[pairKey{userID, partnerID}]
	return ok, nil
}

func (f *fakeMatches) ExistingPartnerIDs(_ context.Context, userID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[uuid.UUID]struct{})
	for k := range f.pairs {
		if k.user == userID {
			out[k.partner] = struct{}{}
		}
	}
	return out, nil
}

func (f *fakeMatches) InsertMatches(_ context.Context, ms []match.Match) ([]match.Match, map[uuid.UUID]error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inserted := make([]match.Match, 0)
	failed := make(map[uuid.UUID]error)
	for _, m := range ms {
		if err := f.failFor[m.PartnerID]; err != nil {
			failed[m.PartnerID] = err
			continue
		}
		k := pairKey{m.UserID, m.PartnerID}
		if _, ok := f.pairs[k]; ok || f.conflict[m.PartnerID] {
			continue
		}
		f.rows[m.ID] = m
		f.pairs[k] = m.ID
		inserted = append(inserted, m)
	}
	return inserted, failed
}

func (f *fakeMatches) ListForUser(_ context.Context, flt repository.MatchFilter) ([]match.Match, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]match.Match, 0)
	for _, m := range f.rows {
		if m.UserID == flt.UserID && m.Status == flt.Status {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	total := len(out)
	if flt.Offset < len(out) {
		out = out[flt.Offset:]
	} else {
		out = nil
	}
	if len(out) > flt.Limit {
		out = out[:flt.Limit]
	}
	return out, total, nil
}

func (f *fakeMatches) WithPairLock(_ context.Context, _, _ uuid.UUID, fn func(tx repository.MatchTx) error) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	return fn(f)
}

type fakeCache struct {
	mu        sync.Mutex
	available bool
	data      map[string][]byte
	deleted   []string
	patterns  []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{available: true, data: make(map[string][]byte)}
}

func (c *fakeCache) Available() bool { return c.available }

func (c *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = b
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	c.deleted = append(c.deleted, key)
	return nil
}

func (c *fakeCache) DeleteByPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.patterns = append(c.patterns, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

func (c *fakeCache) SetIfNotExists(_ context.Context, key string, value string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.data[key]; ok {
		return false, nil
	}
	c.data[key] = []byte(value)
	return true, nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n notification.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *recordingNotifier) all() []notification.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notification.Notification(nil), r.sent...)
}

type fakeSessions struct {
	mu   sync.Mutex
	rows map[uuid.UUID]session.Session
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{rows: make(map[uuid.UUID]session.Session)}
}

func (f *fakeSessions) Create(_ context.Context, s session.Session) (session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[s.ID] = s
	return s, nil
}

func (f *fakeSessions) GetByID(_ context.Context, id uuid.UUID) (session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.rows[id]
	if !ok {
		return session.Session{}, session.ErrNotFound
	}
	return s, nil
}

func (f *fakeSessions) ListForUser(_ context.Context, userID uuid.UUID, st session.Status) ([]session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]session.Session, 0)
	for _, s := range f.rows {
		if s.IsParticipant(userID) && (st == "" || s.Status == st) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessions) Transition(_ context.Context, id uuid.UUID, fn func(session.Session) (session.Session, error)) (session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.rows[id]
	if !ok {
		return session.Session{}, session.ErrNotFound
	}
	next, err := fn(s)
	if err != nil {
		return session.Session{}, err
	}
	f.rows[id] = next
	return next, nil
}

func (f *fakeSessions) Delete(_ context.Context, id uuid.UUID, check func(session.Session) error) (session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.rows[id]
	if !ok {
		return session.Session{}, session.ErrNotFound
	}
	if err := check(s); err != nil {
		return session.Session{}, err
	}
	delete(f.rows, id)
	return s, nil
}

type fakeReviews struct {
	mu   sync.Mutex
	rows []review.Review
}

func (f *fakeReviews) Create(_ context.Context, r review.Review) (review.Review, repository.RatingSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sum, n := 0, 0
	for _, e := range f.rows {
		if e.FromUserID == r.FromUserID && e.SessionID == r.SessionID {
			return review.Review{}, repository.RatingSummary{}, review.ErrAlreadyExists
		}
	}
	f.rows = append(f.rows, r)
	for _, e := range f.rows {
		if e.ToUserID == r.ToUserID {
			sum += e.Rating
			n++
		}
	}
	return r, repository.RatingSummary{Rating: review.RoundRating(float64(sum) / float64(n)), ReviewCount: n}, nil
}

func (f *fakeReviews) ListForUser(_ context.Context, userID uuid.UUID, _, _ int) ([]review.Review, int, float64, error) {
	return f.filter(func(r review.Review) bool { return r.ToUserID == userID })
}

func (f *fakeReviews) ListByAuthor(_ context.Context, userID uuid.UUID, _, _ int) ([]review.Review, int, float64, error) {
	return f.filter(func(r review.Review) bool { return r.FromUserID == userID })
}

func (f *fakeReviews) ListForSession(_ context.Context, sessionID uuid.UUID) ([]review.Review, error) {
	out, _, _, err := f.filter(func(r review.Review) bool { return r.SessionID == sessionID })
	return out, err
}

func (f *fakeReviews) filter(keep func(review.Review) bool) ([]review.Review, int, float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]review.Review, 0)
	sum := 0
	for _, e := range f.rows {
		if keep(e) {
			out = append(out, e)
			sum += e.Rating
		}
	}
	if len(out) == 0 {
		return out, 0, 0, nil
	}
	return out, len(out), review.RoundRating(float64(sum) / float64(len(out))), nil
}
