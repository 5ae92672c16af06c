package steam

import (
	"net/url"
	"strings"

	"github.com/leighmacdonald/steamid/v4/steamid"
)

// steamID64 returns the canonical 64-bit id when accountID is any valid
// SteamID form, and false for vanity names.
func steamID64(accountID string) (string, bool) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return "", false
	}
	sid := steamid.New(accountID)
	if !sid.Valid() {
		return "", false
	}
	return sid.String(), true
}

func storeURL(appID string) string {
	return "https://store.steampowered.com/app/" + appID
}

func iconURL(appID, hash string) string {
	if hash == "" {
		return ""
	}
	return "https://media.steampowered.com/steamcommunity/public/images/apps/" + appID + "/" + url.PathEscape(hash) + ".jpg"
}
