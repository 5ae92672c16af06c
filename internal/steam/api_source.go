package steam

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"steamdash/internal/models"
	"steamdash/internal/providers"
	"steamdash/internal/structures"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
)

type APISourceInterface interface {
	FetchAuthenticated(ctx context.Context, accountID, apiKey string) (*models.Profile, error)
	FetchAchievements(ctx context.Context, steamID, apiKey string, appID int) (*models.Achievements, error)
}

type ownedGamesResponse struct {
	Response *struct {
		GameCount int         `json:"game_count"`
		Games     []ownedGame `json:"games"`
	} `json:"response"`
}

type ownedGame struct {
	AppID           int    `json:"appid"`
	Name            string `json:"name"`
	PlaytimeForever int    `json:"playtime_forever"`
	Playtime2Weeks  int    `json:"playtime_2weeks"`
	ImgIconURL      string `json:"img_icon_url"`
}

type playerSummariesResponse struct {
	Response *struct {
		Players []playerSummary `json:"players"`
	} `json:"response"`
}

type playerSummary struct {
	SteamID       string `json:"steamid"`
	PersonaName   string `json:"personaname"`
	ProfileURL    string `json:"profileurl"`
	AvatarFull    string `json:"avatarfull"`
	PersonaState  int    `json:"personastate"`
	GameExtraInfo string `json:"gameextrainfo"`
}

type steamLevelResponse struct {
	Response *struct {
		PlayerLevel *int `json:"player_level"`
	} `json:"response"`
}

type badgesResponse struct {
	Response *struct {
		Badges   []json.RawMessage `json:"badges"`
		PlayerXP *int              `json:"player_xp"`
	} `json:"response"`
}

type friendListResponse struct {
	FriendsList *struct {
		Friends []struct {
			SteamID string `json:"steamid"`
		} `json:"friends"`
	} `json:"friendslist"`
}

type resolveVanityResponse struct {
	Response *struct {
		SteamID string `json:"steamid"`
		Success int    `json:"success"`
		Message string `json:"message"`
	} `json:"response"`
}

type playerAchievementsResponse struct {
	PlayerStats *struct {
		Success      bool   `json:"success"`
		Error        string `json:"error"`
		Achievements []struct {
			APIName  string `json:"apiname"`
			Achieved int    `json:"achieved"`
		} `json:"achievements"`
	} `json:"playerstats"`
}

// APISource talks to the authenticated Web API. Owned games and the player
// summary are required; level, badges and friends only fill optional fields.
type APISource struct {
	conf      *structures.Config
	transport TransportInterface
	logger    providers.Logger
}

func NewAPISource(conf *structures.Config, transport TransportInterface, logger providers.Logger) APISourceInterface {
	return &APISource{
		conf:      conf,
		transport: transport,
		logger:    logger,
	}
}

func (s *APISource) endpoint(method string, apiKey string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	params.Set("key", apiKey)
	params.Set("format", "json")
	return strings.TrimRight(s.conf.Steam.APIURL, "/") + "/" + method + "/?" + params.Encode()
}

// getJSON decodes a successful response into out. Rejections by the API are
// reported as ErrAuth, everything else as a network or parse failure.
func (s *APISource) getJSON(ctx context.Context, target string, timeout time.Duration, source string, out any) error {
	resp, err := s.transport.Get(ctx, target, timeout, source)
	if err != nil {
		return err
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s returned status %d", ErrAuth, safeURL(target), resp.StatusCode)
	case !resp.OK():
		return &NetworkError{URL: safeURL(target), Status: resp.StatusCode}
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrAuth, safeURL(target), errors.Join(ErrParse, err))
	}
	return nil
}

func (s *APISource) resolveAccount(ctx context.Context, accountID, apiKey string) (string, error) {
	if id, ok := steamID64(accountID); ok {
		return id, nil
	}

	var vanity resolveVanityResponse
	target := s.endpoint("ISteamUser/ResolveVanityURL/v1", apiKey, url.Values{"vanityurl": {strings.TrimSpace(accountID)}})
	if err := s.getJSON(ctx, target, s.conf.Steam.RequestTimeout, SourceAPI, &vanity); err != nil {
		return "", err
	}
	if vanity.Response == nil || vanity.Response.Success != 1 || vanity.Response.SteamID == "" {
		return "", fmt.Errorf("%w: unknown account %q", ErrAuth, accountID)
	}
	return vanity.Response.SteamID, nil
}

func (s *APISource) FetchAuthenticated(ctx context.Context, accountID, apiKey string) (*models.Profile, error) {
	steamID, err := s.resolveAccount(ctx, accountID, apiKey)
	if err != nil {
		return nil, err
	}

	var (
		owned   ownedGamesResponse
		summary playerSummariesResponse
		level   steamLevelResponse
		badges  badgesResponse
		friends friendListResponse

		levelErr, badgesErr, friendsErr error
	)

	required := s.conf.Steam.RequestTimeout
	auxiliary := s.conf.Steam.AuxiliaryTimeout
	id := url.Values{"steamid": {steamID}}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		target := s.endpoint("IPlayerService/GetOwnedGames/v1", apiKey, url.Values{
			"steamid":                   {steamID},
			"include_appinfo":           {"1"},
			"include_played_free_games": {"1"},
		})
		return s.getJSON(gctx, target, required, SourceAPI, &owned)
	})
	g.Go(func() error {
		target := s.endpoint("ISteamUser/GetPlayerSummaries/v2", apiKey, url.Values{"steamids": {steamID}})
		return s.getJSON(gctx, target, required, SourceAPI, &summary)
	})
	g.Go(func() error {
		levelErr = s.getJSON(gctx, s.endpoint("IPlayerService/GetSteamLevel/v1", apiKey, cloneValues(id)), auxiliary, SourceAuxiliary, &level)
		return nil
	})
	g.Go(func() error {
		badgesErr = s.getJSON(gctx, s.endpoint("IPlayerService/GetBadges/v1", apiKey, cloneValues(id)), auxiliary, SourceAuxiliary, &badges)
		return nil
	})
	g.Go(func() error {
		target := s.endpoint("ISteamUser/GetFriendList/v1", apiKey, url.Values{"steamid": {steamID}, "relationship": {"friend"}})
		friendsErr = s.getJSON(gctx, target, auxiliary, SourceAuxiliary, &friends)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if owned.Response == nil {
		return nil, fmt.Errorf("%w: owned games response has no envelope", ErrAuth)
	}
	if summary.Response == nil || len(summary.Response.Players) == 0 || summary.Response.Players[0].SteamID == "" {
		return nil, fmt.Errorf("%w: empty player summary", ErrAuth)
	}

	profile := buildProfile(summary.Response.Players[0], owned.Response.Games)

	if levelErr == nil && level.Response != nil && level.Response.PlayerLevel != nil {
		profile.Level = level.Response.PlayerLevel
	} else {
		s.partial("level", steamID, levelErr)
	}
	if badgesErr == nil && badges.Response != nil {
		count := len(badges.Response.Badges)
		profile.BadgeCount = &count
		profile.XP = badges.Response.PlayerXP
	} else {
		s.partial("badges", steamID, badgesErr)
	}
	if friendsErr == nil && friends.FriendsList != nil {
		count := len(friends.FriendsList.Friends)
		profile.FriendCount = &count
	} else {
		// private friend lists answer 401, which is expected
		s.partial("friends", steamID, friendsErr)
	}

	return profile, nil
}

func (s *APISource) partial(field, steamID string, err error) {
	if err == nil {
		err = errors.New("missing envelope")
	}
	s.logger.Debugf(providers.TypeFetch, "%s: %s for %s: %s", ErrPartialData, field, steamID, err)
}

func buildProfile(player playerSummary, owned []ownedGame) *models.Profile {
	games := make([]*models.Game, 0, len(owned))
	for _, o := range owned {
		appID := strconv.Itoa(o.AppID)
		games = append(games, &models.Game{
			AppID:       o.AppID,
			Name:        o.Name,
			StoreURL:    storeURL(appID),
			IconURL:     iconURL(appID, o.ImgIconURL),
			HoursTotal:  float64(o.PlaytimeForever) / 60,
			HoursRecent: float64(o.Playtime2Weeks) / 60,
		})
	}

	presence, status := presenceFromState(player.PersonaState, player.GameExtraInfo)
	profile := &models.Profile{
		SteamID:       player.SteamID,
		PersonaName:   player.PersonaName,
		AvatarURL:     player.AvatarFull,
		ProfileURL:    player.ProfileURL,
		Presence:      presence,
		StatusMessage: status,
		Source:        models.SourceAPI,
		Games:         models.SortGames(games, models.SortByHours),
	}
	profile.ApplyAggregate()

	estimate := float64(len(games)) * models.EstimatedValuePerGame
	profile.EstimatedValue = &estimate
	return profile
}

// FetchAchievements returns nil without error for games that have no
// achievements. Apps without a stats schema answer with a non-2xx status.
func (s *APISource) FetchAchievements(ctx context.Context, steamID, apiKey string, appID int) (*models.Achievements, error) {
	target := s.endpoint("ISteamUserStats/GetPlayerAchievements/v1", apiKey, url.Values{
		"steamid": {steamID},
		"appid":   {strconv.Itoa(appID)},
	})

	var stats playerAchievementsResponse
	if err := s.getJSON(ctx, target, s.conf.Steam.AuxiliaryTimeout, SourceAchievements, &stats); err != nil {
		return nil, err
	}
	if stats.PlayerStats == nil || !stats.PlayerStats.Success {
		return nil, fmt.Errorf("%w: no stats for app %d", ErrParse, appID)
	}

	achieved := 0
	for _, a := range stats.PlayerStats.Achievements {
		if a.Achieved == 1 {
			achieved++
		}
	}
	return models.NewAchievements(achieved, len(stats.PlayerStats.Achievements)), nil
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
