package views

import (
	"fmt"
	"steamdash/internal/models"
	"steamdash/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProfile(source models.Source) *models.Profile {
	p := &models.Profile{
		SteamID:     "76561197960287930",
		PersonaName: "Rabscuttle",
		Presence:    models.PresenceInGame,
		Source:      source,
		Games: []*models.Game{
			{AppID: 20, Name: "Team Fortress Classic", HoursTotal: 2, HoursRecent: 0.5},
			{AppID: 10, Name: "Counter-Strike"},
		},
	}
	p.ApplyAggregate()
	return p
}

func TestDashboard_RevisionAdvances(t *testing.T) {
	d := NewDashboard(&testutil.MockLogger{})
	start := d.Revision()

	d.RenderProfile(sampleProfile(models.SourcePublic), false)
	d.RenderGamesList()
	d.ShowBusy("Loading")
	d.ClearBusy()

	assert.Equal(t, start+4, d.Revision())
}

func TestDashboard_ErrorClearedByNewProfile(t *testing.T) {
	d := NewDashboard(&testutil.MockLogger{})
	first := sampleProfile(models.SourcePublic)
	d.RenderProfile(first, false)
	d.ShowError("Could not reach Steam")

	snap := d.Snapshot()
	assert.Equal(t, "Could not reach Steam", snap.Error)
	assert.Same(t, first, snap.Profile, "last good profile stays visible")

	d.RenderProfile(first, false)
	assert.Equal(t, "Could not reach Steam", d.Snapshot().Error, "re-rendering the same profile keeps the error")

	d.RenderProfile(sampleProfile(models.SourcePublic), false)
	assert.Empty(t, d.Snapshot().Error)
}

func TestDashboard_PromptLifecycle(t *testing.T) {
	logger := &testutil.MockLogger{}
	d := NewDashboard(logger)

	d.PromptCredential("Re-enter your API key")
	assert.Equal(t, "Re-enter your API key", d.Snapshot().Prompt)
	assert.Equal(t, 1, logger.CountLevel("warn"))

	d.RenderProfile(sampleProfile(models.SourcePublic), false)
	assert.NotEmpty(t, d.Snapshot().Prompt)

	d.DismissPrompt()
	assert.Empty(t, d.Snapshot().Prompt)
}

func TestDashboard_NoticesAreCapped(t *testing.T) {
	d := NewDashboard(&testutil.MockLogger{})
	for i := 0; i < maxNotices+5; i++ {
		d.Notify(fmt.Sprintf("notice %d", i), models.SeverityInfo)
	}
	notices := d.Snapshot().Notices
	require.Len(t, notices, maxNotices)
	assert.Equal(t, "notice 5", notices[0].Message)
	assert.Equal(t, fmt.Sprintf("notice %d", maxNotices+4), notices[maxNotices-1].Message)
}

func TestBuildProfile(t *testing.T) {
	p := sampleProfile(models.SourceAPI)
	value := 30.0
	p.EstimatedValue = &value

	view := BuildProfile(p, true, true)
	assert.Equal(t, "in-game", view.Presence)
	assert.Equal(t, 2, view.TotalGames)
	assert.Equal(t, 1, view.PlayedGames)
	assert.InDelta(t, 0.5, view.CompletionRatio, 0.0001)
	assert.InDelta(t, 1.0, view.AverageHours, 0.0001)
	require.NotNil(t, view.EstimatedValue)
	assert.InDelta(t, 30.0, view.EstimatedValue.Amount, 0.0001)
	assert.True(t, view.AchievementsLoading)

	p.SetAchievements(&models.AchievementSummary{Unlocked: 3, Possible: 4})
	view = BuildProfile(p, true, true)
	assert.False(t, view.AchievementsLoading)
	assert.Equal(t, 3, view.Achievements.Unlocked)

	assert.Nil(t, BuildProfile(nil, false, false))
}

func TestBuildProfile_NotEnriching(t *testing.T) {
	view := BuildProfile(sampleProfile(models.SourceAPI), true, false)
	assert.False(t, view.AchievementsLoading)
	assert.Nil(t, view.Achievements)
}

func TestDashboard_FailedCycleStopsAchievementsLoading(t *testing.T) {
	d := NewDashboard(&testutil.MockLogger{})
	published := sampleProfile(models.SourceAPI)
	d.RenderProfile(published, true)
	assert.True(t, d.Snapshot().Enriching)

	// a later cycle fails before the first batch lands
	d.ShowError("Could not reach Steam")
	snap := d.Snapshot()
	assert.Same(t, published, snap.Profile)
	assert.False(t, snap.Enriching)
	assert.False(t, BuildProfile(snap.Profile, snap.AuthMode, snap.Enriching).AchievementsLoading)

	// re-rendering the same profile does not restart loading
	d.RenderProfile(published, true)
	assert.False(t, d.Snapshot().Enriching)

	d.RenderProfile(sampleProfile(models.SourceAPI), true)
	assert.True(t, d.Snapshot().Enriching)
}

func TestDashboard_PromptStopsAchievementsLoading(t *testing.T) {
	d := NewDashboard(&testutil.MockLogger{})
	d.RenderProfile(sampleProfile(models.SourceAPI), true)
	d.PromptCredential("Re-enter your API key")
	assert.False(t, d.Snapshot().Enriching)
}

func TestDashboard_PublicProfileNeverEnriching(t *testing.T) {
	d := NewDashboard(&testutil.MockLogger{})
	d.RenderProfile(sampleProfile(models.SourcePublic), false)
	assert.False(t, d.Snapshot().Enriching)
}

func TestBuildGames(t *testing.T) {
	p := sampleProfile(models.SourceAPI)
	p.Games[1].SetAchievements(models.NewAchievements(4, 4))

	byName := BuildGames(p, models.SortByName)
	require.Equal(t, 2, byName.Count)
	assert.Equal(t, "Counter-Strike", byName.Games[0].Name)
	assert.True(t, byName.Games[0].Perfect)

	fallback := BuildGames(p, models.SortKey("bogus"))
	assert.Equal(t, models.SortByHours, fallback.Sort)
	assert.Equal(t, "Team Fortress Classic", fallback.Games[0].Name)

	empty := BuildGames(nil, models.SortByName)
	assert.NotNil(t, empty.Games)
	assert.Zero(t, empty.Count)
}
