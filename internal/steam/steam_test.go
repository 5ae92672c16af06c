package steam

import (
	"steamdash/internal/structures"
	"time"
)

func testConfig(community, api string) *structures.Config {
	return &structures.Config{
		Steam: structures.SteamConfig{
			CommunityURL:     community,
			APIURL:           api,
			RequestTimeout:   2 * time.Second,
			AuxiliaryTimeout: time.Second,
		},
	}
}
