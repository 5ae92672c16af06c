package steam

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"steamdash/internal/models"
	"steamdash/internal/providers"
	"steamdash/internal/structures"
	"strings"

	"github.com/spf13/cast"
)

type PublicSourceInterface interface {
	FetchPublic(ctx context.Context, accountID string) (*models.Profile, error)
}

type xmlProfile struct {
	Error        string    `xml:"error"`
	SteamID64    string    `xml:"steamID64"`
	SteamID      string    `xml:"steamID"`
	OnlineState  string    `xml:"onlineState"`
	StateMessage string    `xml:"stateMessage"`
	PrivacyState string    `xml:"privacyState"`
	AvatarFull   string    `xml:"avatarFull"`
	Games        []xmlGame `xml:"mostPlayedGames>mostPlayedGame"`
}

type xmlGame struct {
	Name          string `xml:"gameName"`
	Link          string `xml:"gameLink"`
	Icon          string `xml:"gameIcon"`
	HoursPlayed   string `xml:"hoursPlayed"`
	HoursOnRecord string `xml:"hoursOnRecord"`
}

// PublicSource reads the community XML feed. The feed lists at most the
// handful of most played games, so totals only cover those.
type PublicSource struct {
	conf      *structures.Config
	transport TransportInterface
	logger    providers.Logger
}

func NewPublicSource(conf *structures.Config, transport TransportInterface, logger providers.Logger) PublicSourceInterface {
	return &PublicSource{
		conf:      conf,
		transport: transport,
		logger:    logger,
	}
}

func (s *PublicSource) profileURL(accountID string) string {
	base := strings.TrimRight(s.conf.Steam.CommunityURL, "/")
	if id, ok := steamID64(accountID); ok {
		return base + "/profiles/" + id + "/?xml=1"
	}
	return base + "/id/" + url.PathEscape(strings.TrimSpace(accountID)) + "/?xml=1"
}

func (s *PublicSource) FetchPublic(ctx context.Context, accountID string) (*models.Profile, error) {
	target := s.profileURL(accountID)
	resp, err := s.transport.Get(ctx, target, s.conf.Steam.RequestTimeout, SourcePublic)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, &NetworkError{URL: safeURL(target), Status: resp.StatusCode}
	}

	profile, err := parseProfileFeed(resp.Body)
	if err != nil {
		return nil, err
	}
	s.logger.Debugf(providers.TypeFetch, "Public feed for %s: %d games", accountID, profile.TotalGames)
	return profile, nil
}

func parseProfileFeed(body []byte) (*models.Profile, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: empty profile feed", ErrParse)
	}

	var doc xmlProfile
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrParse, err)
	}
	if msg := strings.TrimSpace(doc.Error); msg != "" {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, msg)
	}
	if privacy := strings.TrimSpace(doc.PrivacyState); privacy != "" && privacy != "public" {
		return nil, fmt.Errorf("%w: this profile is private", ErrProfileNotFound)
	}

	games := make([]*models.Game, 0, len(doc.Games))
	for _, g := range doc.Games {
		total, err := parseHours(g.HoursOnRecord)
		if err != nil {
			return nil, err
		}
		recent, err := parseHours(g.HoursPlayed)
		if err != nil {
			return nil, err
		}
		games = append(games, &models.Game{
			Name:        strings.TrimSpace(g.Name),
			StoreURL:    strings.TrimSpace(g.Link),
			IconURL:     strings.TrimSpace(g.Icon),
			HoursTotal:  total,
			HoursRecent: recent,
		})
	}

	presence, status := presenceFromFeed(doc.OnlineState, doc.StateMessage)
	profile := &models.Profile{
		SteamID:       strings.TrimSpace(doc.SteamID64),
		PersonaName:   strings.TrimSpace(doc.SteamID),
		AvatarURL:     strings.TrimSpace(doc.AvatarFull),
		Presence:      presence,
		StatusMessage: status,
		Source:        models.SourcePublic,
		Games:         games,
	}
	if profile.SteamID != "" {
		profile.ProfileURL = "https://steamcommunity.com/profiles/" + profile.SteamID
	}
	profile.ApplyAggregate()
	return profile, nil
}

// parseHours accepts feed numbers such as "1,234" or "0.5". Empty means zero.
func parseHours(raw string) (float64, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if clean == "" {
		return 0, nil
	}
	hours, err := cast.ToFloat64E(clean)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid hours %q", ErrParse, raw)
	}
	return hours, nil
}
