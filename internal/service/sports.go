package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/arenax/arenax-api/internal/cache"
	"github.com/arenax/arenax-api/internal/model"
	"github.com/arenax/arenax-api/internal/sports"
)

// SportsTTLs groups the per-resource cache lifetimes. Listings (teams,
// players, drivers) change rarely; match/race schedules churn around
// matchdays; news sits in between.
type SportsTTLs struct {
	Listing  time.Duration
	Schedule time.Duration
	News     time.Duration
}

// SportsService serves sports data through per-resource read-through cache
// entries. Within a TTL window repeated calls return the cached payload
// without touching the upstream; after expiry the next call refetches.
//
// Fallback policy lives here, not in the cache: when a fetch fails the
// service first serves whatever stale value the entry still holds, and only
// falls back to the built-in static payload when nothing was ever cached.
type SportsService struct {
	client *sports.Client
	logger *slog.Logger

	teams   *cache.Entry[[]model.Team]
	players *cache.Entry[[]model.Player]
	matches *cache.Entry[[]model.Match]
	news    *cache.Entry[[]model.NewsItem]
	drivers *cache.Entry[[]model.Driver]
	races   *cache.Entry[[]model.Race]
	f1News  *cache.Entry[[]model.NewsItem]
}

func NewSportsService(client *sports.Client, ttls SportsTTLs, logger *slog.Logger) *SportsService {
	return &SportsService{
		client:  client,
		logger:  logger,
		teams:   cache.New[[]model.Team](ttls.Listing),
		players: cache.New[[]model.Player](ttls.Listing),
		matches: cache.New[[]model.Match](ttls.Schedule),
		news:    cache.New[[]model.NewsItem](ttls.News),
		drivers: cache.New[[]model.Driver](ttls.Listing),
		races:   cache.New[[]model.Race](ttls.Schedule),
		f1News:  cache.New[[]model.NewsItem](ttls.News),
	}
}

func (s *SportsService) Teams(ctx context.Context) []model.Team {
	return serve(ctx, s, "football/teams", s.teams, s.client.FootballTeams, sports.FallbackTeams)
}

func (s *SportsService) Players(ctx context.Context) []model.Player {
	return serve(ctx, s, "football/players", s.players, s.client.FootballPlayers, sports.FallbackPlayers)
}

func (s *SportsService) Matches(ctx context.Context) []model.Match {
	return serve(ctx, s, "football/matches", s.matches, s.client.FootballMatches, sports.FallbackMatches)
}

func (s *SportsService) News(ctx context.Context) []model.NewsItem {
	return serve(ctx, s, "football/news", s.news, s.client.FootballNews, sports.FallbackNews)
}

func (s *SportsService) Drivers(ctx context.Context) []model.Driver {
	return serve(ctx, s, "f1/drivers", s.drivers, s.client.F1Drivers, sports.FallbackDrivers)
}

func (s *SportsService) Races(ctx context.Context) []model.Race {
	return serve(ctx, s, "f1/races", s.races, s.client.F1Races, sports.FallbackRaces)
}

func (s *SportsService) F1News(ctx context.Context) []model.NewsItem {
	return serve(ctx, s, "f1/news", s.f1News, s.client.F1News, sports.FallbackNews)
}

// serve runs the read-through flow for one resource: fresh cache hit, else
// upstream fetch, else stale cache, else static fallback. Fetch errors are
// logged and never cached, so the next call retries the upstream.
func serve[T any](
	ctx context.Context,
	s *SportsService,
	resource string,
	entry *cache.Entry[T],
	fetch func(ctx context.Context) (T, error),
	fallback func() T,
) T {
	value, err := entry.GetOrFetch(ctx, fetch)
	if err == nil {
		return value
	}

	s.logger.Warn("sports upstream fetch failed",
		slog.String("resource", resource),
		slog.String("error", err.Error()),
	)

	if stale, ok := entry.Peek(); ok {
		return stale
	}
	return fallback()
}
