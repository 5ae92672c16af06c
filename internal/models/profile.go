package models

import (
	"go.uber.org/atomic"
)

type Source string

const (
	SourcePublic Source = "public"
	SourceAPI    Source = "api"
)

// EstimatedValuePerGame is a rough per-title price used for the account value
// estimate. It is not derived from store prices.
const EstimatedValuePerGame = 15.0

type MostPlayed struct {
	Name  string  `json:"name"`
	Hours float64 `json:"hours"`
}

type AchievementSummary struct {
	Unlocked      int     `json:"unlocked"`
	Possible      int     `json:"possible"`
	PerfectGames  int     `json:"perfect_games"`
	GamesWithData int     `json:"games_with_data"`
	AvgCompletion float64 `json:"avg_completion"`
}

// Profile is the normalized snapshot of one fetch cycle.
type Profile struct {
	SteamID       string
	PersonaName   string
	AvatarURL     string
	ProfileURL    string
	Presence      Presence
	StatusMessage string
	Source        Source

	TotalGames      int
	TotalHours      float64
	RecentHours     float64
	AverageHours    float64
	MostPlayed      *MostPlayed
	PlayedGames     int
	UnplayedGames   int
	CompletionRatio float64

	Level          *int
	XP             *int
	BadgeCount     *int
	FriendCount    *int
	EstimatedValue *float64

	Games []*Game

	achievements atomic.Pointer[AchievementSummary]
}

// Achievements returns nil until enrichment has published a summary.
func (p *Profile) Achievements() *AchievementSummary {
	return p.achievements.Load()
}

func (p *Profile) SetAchievements(s *AchievementSummary) {
	p.achievements.Store(s)
}

// ApplyAggregate fills the counters derived from the game list.
func (p *Profile) ApplyAggregate() {
	agg := DeriveAggregate(p.Games)
	totalGames := agg.PlayedCount + agg.UnplayedCount
	p.TotalGames = totalGames
	p.TotalHours = agg.TotalHours
	p.RecentHours = agg.RecentHours
	p.PlayedGames = agg.PlayedCount
	p.UnplayedGames = agg.UnplayedCount
	p.CompletionRatio = agg.CompletionRatio
	if totalGames > 0 {
		p.AverageHours = agg.TotalHours / float64(totalGames)
	}

	var top *Game
	for _, g := range p.Games {
		if top == nil || g.HoursTotal > top.HoursTotal {
			top = g
		}
	}
	if top != nil && top.HoursTotal > 0 {
		p.MostPlayed = &MostPlayed{Name: top.Name, Hours: top.HoursTotal}
	}
}
