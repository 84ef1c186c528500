package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/arenax/arenax-api/internal/sports"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeUpstream serves /football/teams and counts how many requests reach it,
// so cache hits can be distinguished from refetches.
func fakeUpstream(t *testing.T, status int) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/football/teams" {
			http.NotFound(w, r)
			return
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"teams":[{"id":"t-100","name":"Everton","leagueName":"Premier League","country":"England"}]}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestTeams_SecondCallWithinTTLHitsCache(t *testing.T) {
	srv, calls := fakeUpstream(t, http.StatusOK)
	svc := NewSportsService(
		sports.NewClient(srv.URL, "test-key"),
		SportsTTLs{Listing: time.Hour, Schedule: time.Hour, News: time.Hour},
		discardLogger(),
	)

	first := svc.Teams(context.Background())
	if len(first) != 1 || first[0].Name != "Everton" {
		t.Fatalf("Teams() = %+v, want the upstream payload", first)
	}

	second := svc.Teams(context.Background())
	if len(second) != 1 || second[0].Name != "Everton" {
		t.Fatalf("second Teams() = %+v, want the cached payload", second)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("upstream calls = %d, want 1 (second call must hit the cache)", n)
	}
}

func TestTeams_UnconfiguredClientServesFallback(t *testing.T) {
	svc := NewSportsService(
		sports.NewClient("", ""),
		SportsTTLs{Listing: time.Hour, Schedule: time.Hour, News: time.Hour},
		discardLogger(),
	)

	teams := svc.Teams(context.Background())
	if len(teams) == 0 {
		t.Fatal("Teams() must serve the static fallback when no upstream is configured")
	}

	want := sports.FallbackTeams()
	if teams[0].Name != want[0].Name {
		t.Errorf("Teams()[0].Name = %q, want fallback %q", teams[0].Name, want[0].Name)
	}
}

func TestTeams_UpstreamErrorServesFallback(t *testing.T) {
	srv, calls := fakeUpstream(t, http.StatusInternalServerError)
	svc := NewSportsService(
		sports.NewClient(srv.URL, "test-key"),
		SportsTTLs{Listing: time.Hour, Schedule: time.Hour, News: time.Hour},
		discardLogger(),
	)

	teams := svc.Teams(context.Background())
	if len(teams) == 0 {
		t.Fatal("Teams() must serve the static fallback on upstream errors")
	}

	// The failure was not cached: the next call hits the upstream again.
	svc.Teams(context.Background())
	if n := calls.Load(); n != 2 {
		t.Errorf("upstream calls = %d, want 2 (errors must not be cached)", n)
	}
}

// Once the upstream has answered successfully, a later outage serves the
// stale cached payload, not the static fallback.
func TestTeams_StaleBeatsStaticFallback(t *testing.T) {
	healthy := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"teams":[{"id":"t-100","name":"Everton","leagueName":"Premier League","country":"England"}]}`))
	}))
	t.Cleanup(srv.Close)

	// Zero TTL: every call is a miss, so the second call refetches and fails.
	svc := NewSportsService(
		sports.NewClient(srv.URL, "test-key"),
		SportsTTLs{Listing: 0, Schedule: 0, News: 0},
		discardLogger(),
	)

	if teams := svc.Teams(context.Background()); len(teams) != 1 || teams[0].Name != "Everton" {
		t.Fatalf("Teams() = %+v, want the upstream payload", teams)
	}

	healthy = false
	teams := svc.Teams(context.Background())
	if len(teams) != 1 || teams[0].Name != "Everton" {
		t.Errorf("Teams() during outage = %+v, want the stale cached payload", teams)
	}
}

func TestDrivers_UnconfiguredClientServesFallback(t *testing.T) {
	svc := NewSportsService(
		sports.NewClient("", ""),
		SportsTTLs{Listing: time.Hour, Schedule: time.Hour, News: time.Hour},
		discardLogger(),
	)

	drivers := svc.Drivers(context.Background())
	if len(drivers) == 0 {
		t.Fatal("Drivers() must serve the static fallback when no upstream is configured")
	}
}
