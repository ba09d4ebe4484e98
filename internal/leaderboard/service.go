package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/abhisek/fido/internal/feedback"
	"github.com/abhisek/fido/internal/store"
	"github.com/oklog/ulid/v2"
)

const profilePrefix = "profiles/"

// Profile is a user's points account.
type Profile struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Earned is lifetime points and decides rank. Balance is what is left
	// to spend.
	Earned  int64 `json:"earned"`
	Balance int64 `json:"balance"`

	Awards      []Award      `json:"awards"`
	Redemptions []Redemption `json:"redemptions"`
}

// Redemption records a reward claimed with points.
type Redemption struct {
	ID         string    `json:"id"`
	RewardID   string    `json:"reward_id"`
	Cost       int64     `json:"cost"`
	RedeemedAt time.Time `json:"redeemed_at"`
}

// Option configures a Service.
type Option func(*Service)

// WithTiers replaces the default rank tiers.
func WithTiers(t Tiers) Option {
	return func(s *Service) { s.tiers = t }
}

// WithPoints replaces the default award values.
func WithPoints(p PointsConfig) Option {
	return func(s *Service) { s.points = p }
}

// WithRewards replaces the default rewards catalog.
func WithRewards(r []Reward) Option {
	return func(s *Service) { s.rewards = slices.Clone(r) }
}

// Service manages points accounts stored in a KV.
type Service struct {
	kv      store.KV
	tiers   Tiers
	points  PointsConfig
	rewards []Reward
	now     func() time.Time

	mu sync.Mutex
}

// NewService creates a leaderboard service over kv.
func NewService(kv store.KV, opts ...Option) *Service {
	s := &Service{
		kv:      kv,
		tiers:   DefaultTiers(),
		points:  DefaultPoints(),
		rewards: DefaultRewards(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tiers returns the rank tiers in use.
func (s *Service) Tiers() Tiers { return s.tiers }

// Rewards returns the rewards catalog.
func (s *Service) Rewards() []Reward { return slices.Clone(s.rewards) }

// Profile returns userID's account. Unknown users have an empty account.
func (s *Service) Profile(ctx context.Context, userID string) (Profile, error) {
	return s.load(ctx, userID)
}

// Award grants points to userID.
func (s *Service) Award(ctx context.Context, userID string, awards ...Award) (Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return Profile{}, fmt.Errorf("award points: user ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	for _, a := range awards {
		if a.RecordID != "" && p.hasAward(a.Type, a.RecordID) {
			continue
		}
		if a.AwardedAt.IsZero() {
			a.AwardedAt = s.now().UTC()
		}
		p.Earned += a.Points
		p.Balance += a.Points
		p.Awards = append(p.Awards, a)
	}
	if err := s.save(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Deliver awards the assessor of a completed feedback record. It
// implements feedback.Sink; delivering the same record twice awards once.
func (s *Service) Deliver(ctx context.Context, rec feedback.Record) error {
	_, err := s.Award(ctx, rec.Assessor, s.points.AwardsFor(rec)...)
	return err
}

// Redeem spends points on a reward.
func (s *Service) Redeem(ctx context.Context, userID, rewardID string) (Redemption, error) {
	reward, ok := findReward(s.rewards, rewardID)
	if !ok {
		return Redemption{}, fmt.Errorf("%w: %s", ErrUnknownReward, rewardID)
	}
	if !reward.Available {
		return Redemption{}, fmt.Errorf("%w: %s", ErrRewardUnavailable, reward.Name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx, userID)
	if err != nil {
		return Redemption{}, err
	}
	if p.Balance < reward.Cost {
		return Redemption{}, fmt.Errorf("%w: %s costs %d, balance is %d", ErrInsufficientPoints, reward.Name, reward.Cost, p.Balance)
	}

	r := Redemption{
		ID:         ulid.Make().String(),
		RewardID:   reward.ID,
		Cost:       reward.Cost,
		RedeemedAt: s.now().UTC(),
	}
	p.Balance -= reward.Cost
	p.Redemptions = append(p.Redemptions, r)
	if err := s.save(ctx, p); err != nil {
		return Redemption{}, err
	}
	return r, nil
}

// Roster returns every stored account as a leaderboard user.
func (s *Service) Roster(ctx context.Context) ([]User, error) {
	keys, err := s.kv.List(ctx, profilePrefix)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	users := make([]User, 0, len(keys))
	for _, k := range keys {
		p, err := s.load(ctx, strings.TrimPrefix(k, profilePrefix))
		if err != nil {
			return nil, err
		}
		users = append(users, User{ID: p.ID, Name: p.displayName(), Points: p.Earned})
	}
	return users, nil
}

// Leaderboard ranks every stored account.
func (s *Service) Leaderboard(ctx context.Context) ([]Standing, error) {
	roster, err := s.Roster(ctx)
	if err != nil {
		return nil, err
	}
	return Rank(roster, s.tiers), nil
}

func (p Profile) hasAward(t AwardType, recordID string) bool {
	for _, a := range p.Awards {
		if a.Type == t && a.RecordID == recordID {
			return true
		}
	}
	return false
}

func (p Profile) displayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

func (s *Service) load(ctx context.Context, userID string) (Profile, error) {
	raw, ok, err := s.kv.Get(ctx, profilePrefix+userID)
	if err != nil {
		return Profile{}, fmt.Errorf("load profile %s: %w", userID, err)
	}
	if !ok {
		return Profile{ID: userID}, nil
	}
	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return Profile{}, fmt.Errorf("decode profile %s: %w", userID, err)
	}
	return p, nil
}

func (s *Service) save(ctx context.Context, p Profile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := s.kv.Put(ctx, profilePrefix+p.ID, raw); err != nil {
		return fmt.Errorf("save profile %s: %w", p.ID, err)
	}
	return nil
}
