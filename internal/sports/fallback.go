package sports

import (
	"time"

	"github.com/arenax/arenax-api/internal/model"
)

// Static fallback payloads served when the upstream provider is unreachable
// and nothing has been cached yet. The site stays browsable instead of
// rendering empty pages. Each function returns a fresh slice so callers
// can't mutate the shared data.

func FallbackTeams() []model.Team {
	return []model.Team{
		{ID: "t-001", Name: "Arsenal", LeagueName: "Premier League", Country: "England", Stadium: "Emirates Stadium"},
		{ID: "t-002", Name: "Real Madrid", LeagueName: "La Liga", Country: "Spain", Stadium: "Santiago Bernabéu"},
		{ID: "t-003", Name: "Bayern Munich", LeagueName: "Bundesliga", Country: "Germany", Stadium: "Allianz Arena"},
		{ID: "t-004", Name: "Inter Milan", LeagueName: "Serie A", Country: "Italy", Stadium: "San Siro"},
		{ID: "t-005", Name: "Paris Saint-Germain", LeagueName: "Ligue 1", Country: "France", Stadium: "Parc des Princes"},
		{ID: "t-006", Name: "Manchester City", LeagueName: "Premier League", Country: "England", Stadium: "Etihad Stadium"},
	}
}

func FallbackPlayers() []model.Player {
	return []model.Player{
		{ID: "p-001", Name: "Bukayo Saka", Team: "Arsenal", Position: "Winger", Nationality: "England"},
		{ID: "p-002", Name: "Jude Bellingham", Team: "Real Madrid", Position: "Midfielder", Nationality: "England"},
		{ID: "p-003", Name: "Harry Kane", Team: "Bayern Munich", Position: "Striker", Nationality: "England"},
		{ID: "p-004", Name: "Lautaro Martínez", Team: "Inter Milan", Position: "Striker", Nationality: "Argentina"},
		{ID: "p-005", Name: "Erling Haaland", Team: "Manchester City", Position: "Striker", Nationality: "Norway"},
	}
}

func FallbackMatches() []model.Match {
	return []model.Match{
		{ID: "m-001", HomeTeam: "Arsenal", AwayTeam: "Manchester City", League: "Premier League", Status: "scheduled", KickoffAt: time.Now().Add(48 * time.Hour).Truncate(time.Hour)},
		{ID: "m-002", HomeTeam: "Real Madrid", AwayTeam: "Bayern Munich", League: "Champions League", Status: "scheduled", KickoffAt: time.Now().Add(96 * time.Hour).Truncate(time.Hour)},
	}
}

func FallbackNews() []model.NewsItem {
	return []model.NewsItem{
		{Title: "Transfer window roundup", Source: "ArenaX", URL: "https://arenax.example/news/transfer-roundup", PublishedAt: time.Now().Add(-24 * time.Hour).Truncate(time.Hour)},
		{Title: "Title race heats up ahead of derby weekend", Source: "ArenaX", URL: "https://arenax.example/news/title-race", PublishedAt: time.Now().Add(-48 * time.Hour).Truncate(time.Hour)},
	}
}

func FallbackDrivers() []model.Driver {
	return []model.Driver{
		{ID: "d-001", Name: "Max Verstappen", Team: "Red Bull Racing", Number: 1, Nationality: "Netherlands"},
		{ID: "d-004", Name: "Lando Norris", Team: "McLaren", Number: 4, Nationality: "United Kingdom"},
		{ID: "d-016", Name: "Charles Leclerc", Team: "Ferrari", Number: 16, Nationality: "Monaco"},
		{ID: "d-044", Name: "Lewis Hamilton", Team: "Ferrari", Number: 44, Nationality: "United Kingdom"},
	}
}

func FallbackRaces() []model.Race {
	return []model.Race{
		{ID: "r-001", Name: "Monaco Grand Prix", Circuit: "Circuit de Monaco", Country: "Monaco", Status: "scheduled", StartsAt: time.Now().Add(14 * 24 * time.Hour).Truncate(time.Hour)},
		{ID: "r-002", Name: "British Grand Prix", Circuit: "Silverstone", Country: "United Kingdom", Status: "scheduled", StartsAt: time.Now().Add(28 * 24 * time.Hour).Truncate(time.Hour)},
	}
}
