package models

import (
	"cmp"
	"slices"
	"strings"
)

type SortKey string

const (
	SortByHours        SortKey = "playtime"
	SortByRecent       SortKey = "recent"
	SortByAchievements SortKey = "achievements"
	SortByName         SortKey = "name"
	SortByNameDesc     SortKey = "name-desc"
)

func (k SortKey) Valid() bool {
	switch k {
	case SortByHours, SortByRecent, SortByAchievements, SortByName, SortByNameDesc:
		return true
	}
	return false
}

type Aggregate struct {
	TotalHours      float64 `json:"total_hours"`
	RecentHours     float64 `json:"recent_hours"`
	PlayedCount     int     `json:"played_count"`
	UnplayedCount   int     `json:"unplayed_count"`
	CompletionRatio float64 `json:"completion_ratio"`
}

// SortGames returns a sorted copy; the input slice is left untouched.
// Equal elements keep their input order. Unknown keys fall back to playtime.
func SortGames(games []*Game, key SortKey) []*Game {
	out := slices.Clone(games)
	var less func(a, b *Game) int
	switch key {
	case SortByRecent:
		less = func(a, b *Game) int { return cmp.Compare(b.HoursRecent, a.HoursRecent) }
	case SortByAchievements:
		less = func(a, b *Game) int { return cmp.Compare(b.completion(), a.completion()) }
	case SortByName:
		less = func(a, b *Game) int { return compareNames(a, b) }
	case SortByNameDesc:
		less = func(a, b *Game) int { return compareNames(b, a) }
	default:
		less = func(a, b *Game) int { return cmp.Compare(b.HoursTotal, a.HoursTotal) }
	}
	slices.SortStableFunc(out, less)
	return out
}

func compareNames(a, b *Game) int {
	return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
}

func DeriveAggregate(games []*Game) Aggregate {
	var agg Aggregate
	for _, g := range games {
		agg.TotalHours += g.HoursTotal
		agg.RecentHours += g.HoursRecent
		if g.Played() {
			agg.PlayedCount++
		} else {
			agg.UnplayedCount++
		}
	}
	if len(games) > 0 {
		agg.CompletionRatio = float64(agg.PlayedCount) / float64(len(games))
	}
	return agg
}

// SummarizeAchievements folds per-game results into the profile-wide summary.
// Games without data are skipped.
func SummarizeAchievements(results []*Achievements) *AchievementSummary {
	s := &AchievementSummary{}
	var percentSum float64
	for _, a := range results {
		if a == nil {
			continue
		}
		s.Unlocked += a.Achieved
		s.Possible += a.Total
		s.GamesWithData++
		percentSum += a.Percent
		if a.Perfect() {
			s.PerfectGames++
		}
	}
	if s.GamesWithData > 0 {
		s.AvgCompletion = percentSum / float64(s.GamesWithData)
	}
	return s
}
