package feeds

import (
	"context"
	"time"

	"github.com/nikbrunner/nt/internal/cache"
)

// Default time-to-live per feed.
const (
	HackathonsTTL = 60 * time.Minute
	ContestsTTL   = 15 * time.Minute
	NewsTTL       = 30 * time.Minute
)

// Cache keys.
const (
	HackathonsKey = "hackathonsCache"
	ContestsKey   = "contestsCache"
	NewsKey       = "newsCache"
)

// TTLs overrides the default time-to-live per feed. Zero keeps the default.
type TTLs struct {
	Hackathons time.Duration
	Contests   time.Duration
	News       time.Duration
}

func (t TTLs) withDefaults() TTLs {
	if t.Hackathons <= 0 {
		t.Hackathons = HackathonsTTL
	}
	if t.Contests <= 0 {
		t.Contests = ContestsTTL
	}
	if t.News <= 0 {
		t.News = NewsTTL
	}
	return t
}

// Service serves each feed through its own cache.
type Service struct {
	hackathons *cache.Cache[[]Hackathon]
	contests   *cache.Cache[[]Contest]
	news       *cache.Cache[[]NewsItem]
}

// NewService wires client to backend.
func NewService(client *Client, backend cache.Backend, ttls TTLs, opts ...cache.Option) *Service {
	ttls = ttls.withDefaults()
	return &Service{
		hackathons: cache.New(HackathonsKey, ttls.Hackathons, backend, client.Hackathons, opts...),
		contests:   cache.New(ContestsKey, ttls.Contests, backend, client.Contests, opts...),
		news:       cache.New(NewsKey, ttls.News, backend, client.News, opts...),
	}
}

// Hackathons returns cached or fetched hackathons.
func (s *Service) Hackathons(ctx context.Context) ([]Hackathon, error) {
	return s.hackathons.Load(ctx)
}

// Contests returns cached or fetched contests.
func (s *Service) Contests(ctx context.Context) ([]Contest, error) {
	return s.contests.Load(ctx)
}

// News returns cached or fetched news.
func (s *Service) News(ctx context.Context) ([]NewsItem, error) {
	return s.news.Load(ctx)
}

// RefreshContests forces a contests fetch.
func (s *Service) RefreshContests(ctx context.Context) ([]Contest, error) {
	return s.contests.Refresh(ctx)
}

// RunContests refreshes contests every TTL until ctx is done.
func (s *Service) RunContests(ctx context.Context) {
	s.contests.Run(ctx, s.contests.TTL())
}

// Wait joins background revalidations.
func (s *Service) Wait() {
	s.hackathons.Wait()
	s.contests.Wait()
	s.news.Wait()
}
