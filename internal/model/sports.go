package model

import "time"

// Team is a football club as returned by the sports data provider.
type Team struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	LeagueName string `json:"leagueName"`
	Country    string `json:"country"`
	Stadium    string `json:"stadium,omitempty"`
	BadgeURL   string `json:"badgeUrl,omitempty"`
}

// Player is a football player listing entry.
type Player struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Team        string `json:"team"`
	Position    string `json:"position"`
	Nationality string `json:"nationality,omitempty"`
	PhotoURL    string `json:"photoUrl,omitempty"`
}

// Match is a scheduled or completed fixture.
type Match struct {
	ID        string    `json:"id"`
	HomeTeam  string    `json:"homeTeam"`
	AwayTeam  string    `json:"awayTeam"`
	HomeScore int       `json:"homeScore"`
	AwayScore int       `json:"awayScore"`
	League    string    `json:"league"`
	Status    string    `json:"status"` // "scheduled", "live", "finished"
	KickoffAt time.Time `json:"kickoffAt"`
}

// NewsItem is a sports news article reference.
type NewsItem struct {
	Title       string    `json:"title"`
	Summary     string    `json:"summary,omitempty"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
}

// Driver is a Formula 1 driver listing entry.
type Driver struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Team        string `json:"team"`
	Number      int    `json:"number"`
	Nationality string `json:"nationality,omitempty"`
}

// Race is a Formula 1 grand prix entry.
type Race struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Circuit  string    `json:"circuit"`
	Country  string    `json:"country"`
	StartsAt time.Time `json:"startsAt"`
	Status   string    `json:"status"`
}
