package models

import (
	"go.uber.org/atomic"
)

type Achievements struct {
	Achieved int     `json:"achieved"`
	Total    int     `json:"total"`
	Percent  float64 `json:"percent"`
}

// NewAchievements returns nil when the game exposes no achievements.
func NewAchievements(achieved, total int) *Achievements {
	if total <= 0 {
		return nil
	}
	return &Achievements{
		Achieved: achieved,
		Total:    total,
		Percent:  float64(achieved) / float64(total) * 100,
	}
}

func (a *Achievements) Perfect() bool {
	return a != nil && a.Total > 0 && a.Achieved == a.Total
}

// Game is one library entry. Only the achievements field changes after the
// owning Profile has been published.
type Game struct {
	AppID       int
	Name        string
	StoreURL    string
	IconURL     string
	HoursTotal  float64
	HoursRecent float64

	achievements atomic.Pointer[Achievements]
}

func (g *Game) Achievements() *Achievements {
	return g.achievements.Load()
}

func (g *Game) SetAchievements(a *Achievements) {
	g.achievements.Store(a)
}

func (g *Game) Played() bool {
	return g.HoursTotal > 0
}

// completion is used for ordering; games without data sort below 0%.
func (g *Game) completion() float64 {
	if a := g.Achievements(); a != nil {
		return a.Percent
	}
	return -1
}
