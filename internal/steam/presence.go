package steam

import (
	"steamdash/internal/models"
	"strings"
)

// personaStates follows the Web API personastate codes 0..6.
var personaStates = []struct {
	presence models.Presence
	label    string
}{
	{models.PresenceOffline, "Offline"},
	{models.PresenceOnline, "Online"},
	{models.PresenceBusy, "Busy"},
	{models.PresenceAway, "Away"},
	{models.PresenceSnooze, "Snooze"},
	{models.PresenceLookingToTrade, "Looking to trade"},
	{models.PresenceLookingToPlay, "Looking to play"},
}

func presenceFromState(state int, currentGame string) (models.Presence, string) {
	if currentGame != "" {
		return models.PresenceInGame, "In-Game: " + currentGame
	}
	if state < 0 || state >= len(personaStates) {
		return models.PresenceOffline, personaStates[0].label
	}
	return personaStates[state].presence, personaStates[state].label
}

func presenceFromFeed(onlineState, stateMessage string) (models.Presence, string) {
	msg := strings.TrimSpace(strings.ReplaceAll(stateMessage, "<br/>", " - "))
	presence := models.ParsePresence(strings.ToLower(strings.TrimSpace(onlineState)))
	if presence == models.PresenceOnline {
		// the feed only reports busy/away inside the free-text message
		lower := strings.ToLower(msg)
		for _, s := range personaStates[2:] {
			if strings.HasPrefix(lower, strings.ToLower(s.label)) {
				presence = s.presence
				break
			}
		}
	}
	return presence, msg
}
