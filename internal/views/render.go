package views

import (
	"steamdash/internal/models"
)

type ProfileView struct {
	SteamID       string `json:"steam_id"`
	PersonaName   string `json:"persona_name"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	ProfileURL    string `json:"profile_url,omitempty"`
	Presence      string `json:"presence"`
	StatusMessage string `json:"status_message,omitempty"`
	Source        string `json:"source"`
	AuthMode      bool   `json:"auth_mode"`

	TotalGames      int                `json:"total_games"`
	TotalHours      float64            `json:"total_hours"`
	RecentHours     float64            `json:"recent_hours"`
	AverageHours    float64            `json:"average_hours"`
	PlayedGames     int                `json:"played_games"`
	UnplayedGames   int                `json:"unplayed_games"`
	CompletionRatio float64            `json:"completion_ratio"`
	MostPlayed      *models.MostPlayed `json:"most_played,omitempty"`

	Level       *int `json:"level,omitempty"`
	XP          *int `json:"xp,omitempty"`
	BadgeCount  *int `json:"badge_count,omitempty"`
	FriendCount *int `json:"friend_count,omitempty"`

	EstimatedValue *EstimatedValue `json:"estimated_value,omitempty"`

	Achievements        *models.AchievementSummary `json:"achievements,omitempty"`
	AchievementsLoading bool                       `json:"achievements_loading"`
}

type EstimatedValue struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Note     string  `json:"note"`
}

type GameView struct {
	AppID        int                  `json:"app_id,omitempty"`
	Name         string               `json:"name"`
	StoreURL     string               `json:"store_url,omitempty"`
	IconURL      string               `json:"icon_url,omitempty"`
	HoursTotal   float64              `json:"hours_total"`
	HoursRecent  float64              `json:"hours_recent"`
	Achievements *models.Achievements `json:"achievements,omitempty"`
	Perfect      bool                 `json:"perfect"`
}

type GamesView struct {
	Sort  models.SortKey `json:"sort"`
	Count int            `json:"count"`
	Games []GameView     `json:"games"`
}

// BuildProfile renders the profile header and aggregate stats. The
// aggregate is derived from the game list on every call because enrichment
// mutates games in place. enriching is false once the cycle that published
// the profile can no longer deliver achievements.
func BuildProfile(profile *models.Profile, authMode, enriching bool) *ProfileView {
	if profile == nil {
		return nil
	}
	agg := models.DeriveAggregate(profile.Games)
	view := &ProfileView{
		SteamID:         profile.SteamID,
		PersonaName:     profile.PersonaName,
		AvatarURL:       profile.AvatarURL,
		ProfileURL:      profile.ProfileURL,
		Presence:        profile.Presence.String(),
		StatusMessage:   profile.StatusMessage,
		Source:          string(profile.Source),
		AuthMode:        authMode,
		TotalGames:      agg.PlayedCount + agg.UnplayedCount,
		TotalHours:      agg.TotalHours,
		RecentHours:     agg.RecentHours,
		PlayedGames:     agg.PlayedCount,
		UnplayedGames:   agg.UnplayedCount,
		CompletionRatio: agg.CompletionRatio,
		MostPlayed:      profile.MostPlayed,
		Level:           profile.Level,
		XP:              profile.XP,
		BadgeCount:      profile.BadgeCount,
		FriendCount:     profile.FriendCount,
		Achievements:    profile.Achievements(),
	}
	if view.TotalGames > 0 {
		view.AverageHours = agg.TotalHours / float64(view.TotalGames)
	}
	if profile.EstimatedValue != nil {
		view.EstimatedValue = &EstimatedValue{
			Amount:   *profile.EstimatedValue,
			Currency: "USD",
			Note:     "estimate based on owned game count",
		}
	}
	view.AchievementsLoading = enriching && view.Achievements == nil
	return view
}

func BuildGames(profile *models.Profile, key models.SortKey) *GamesView {
	if !key.Valid() {
		key = models.SortByHours
	}
	out := &GamesView{Sort: key, Games: []GameView{}}
	if profile == nil {
		return out
	}
	for _, g := range models.SortGames(profile.Games, key) {
		a := g.Achievements()
		out.Games = append(out.Games, GameView{
			AppID:        g.AppID,
			Name:         g.Name,
			StoreURL:     g.StoreURL,
			IconURL:      g.IconURL,
			HoursTotal:   g.HoursTotal,
			HoursRecent:  g.HoursRecent,
			Achievements: a,
			Perfect:      a.Perfect(),
		})
	}
	out.Count = len(out.Games)
	return out
}
