package models

type Presence int

const (
	PresenceOffline Presence = iota
	PresenceOnline
	PresenceBusy
	PresenceAway
	PresenceSnooze
	PresenceLookingToTrade
	PresenceLookingToPlay
	PresenceInGame
)

var presenceNames = [...]string{
	PresenceOffline:        "offline",
	PresenceOnline:         "online",
	PresenceBusy:           "busy",
	PresenceAway:           "away",
	PresenceSnooze:         "snooze",
	PresenceLookingToTrade: "looking-to-trade",
	PresenceLookingToPlay:  "looking-to-play",
	PresenceInGame:         "in-game",
}

func (p Presence) String() string {
	if p < 0 || int(p) >= len(presenceNames) {
		return presenceNames[PresenceOffline]
	}
	return presenceNames[p]
}

func (p Presence) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// ParsePresence maps the public feed's onlineState values. Unknown values are
// reported as offline.
func ParsePresence(s string) Presence {
	for i, name := range presenceNames {
		if name == s {
			return Presence(i)
		}
	}
	return PresenceOffline
}
