package steam

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"steamdash/internal/models"
	"steamdash/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<profile>
	<steamID64>76561197960287930</steamID64>
	<steamID><![CDATA[Rabscuttle]]></steamID>
	<onlineState>online</onlineState>
	<stateMessage><![CDATA[Online]]></stateMessage>
	<privacyState>public</privacyState>
	<avatarFull><![CDATA[https://avatars.example/full.jpg]]></avatarFull>
	<mostPlayedGames>
		<mostPlayedGame>
			<gameName><![CDATA[Dota 2]]></gameName>
			<gameLink><![CDATA[https://steamcommunity.com/app/570]]></gameLink>
			<gameIcon><![CDATA[https://cdn.example/570.jpg]]></gameIcon>
			<hoursPlayed>12.5</hoursPlayed>
			<hoursOnRecord>1,234</hoursOnRecord>
		</mostPlayedGame>
		<mostPlayedGame>
			<gameName><![CDATA[Portal 2]]></gameName>
			<hoursPlayed>0</hoursPlayed>
			<hoursOnRecord>10</hoursOnRecord>
		</mostPlayedGame>
		<mostPlayedGame>
			<gameName><![CDATA[Half-Life]]></gameName>
			<hoursOnRecord>0.5</hoursOnRecord>
		</mostPlayedGame>
	</mostPlayedGames>
</profile>`

func feedServer(t *testing.T, status int, body string) (*httptest.Server, *[]string) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("xml"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &paths
}

func newPublic(srv *httptest.Server) PublicSourceInterface {
	conf := testConfig(srv.URL, "")
	return NewPublicSource(conf, NewTransport(conf, &testutil.MockLogger{}, &testutil.MockMetrics{}), &testutil.MockLogger{})
}

func TestPublicSource_ParsesFeed(t *testing.T) {
	srv, paths := feedServer(t, http.StatusOK, sampleFeed)

	profile, err := newPublic(srv).FetchPublic(context.Background(), "76561197960287930")
	require.NoError(t, err)

	assert.Equal(t, []string{"/profiles/76561197960287930/"}, *paths)
	assert.Equal(t, "Rabscuttle", profile.PersonaName)
	assert.Equal(t, "76561197960287930", profile.SteamID)
	assert.Equal(t, models.SourcePublic, profile.Source)
	assert.Equal(t, models.PresenceOnline, profile.Presence)
	assert.Equal(t, 3, profile.TotalGames)
	assert.InDelta(t, 1244.5, profile.TotalHours, 0.0001)
	assert.InDelta(t, 12.5, profile.RecentHours, 0.0001)
	require.NotNil(t, profile.MostPlayed)
	assert.Equal(t, "Dota 2", profile.MostPlayed.Name)
	assert.Nil(t, profile.Level)
	assert.Nil(t, profile.EstimatedValue)
	assert.Equal(t, "https://steamcommunity.com/app/570", profile.Games[0].StoreURL)
}

func TestPublicSource_VanityURL(t *testing.T) {
	srv, paths := feedServer(t, http.StatusOK, sampleFeed)

	_, err := newPublic(srv).FetchPublic(context.Background(), "rabscuttle")
	require.NoError(t, err)
	assert.Equal(t, []string{"/id/rabscuttle/"}, *paths)
}

func TestPublicSource_ErrorElement(t *testing.T) {
	srv, _ := feedServer(t, http.StatusOK,
		`<?xml version="1.0"?><response><error><![CDATA[The specified profile could not be found.]]></error></response>`)

	_, err := newPublic(srv).FetchPublic(context.Background(), "nobody")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProfileNotFound))
	assert.Contains(t, err.Error(), "could not be found")
}

func TestPublicSource_PrivateProfile(t *testing.T) {
	srv, _ := feedServer(t, http.StatusOK,
		`<profile><steamID64>76561197960287930</steamID64><privacyState>private</privacyState></profile>`)

	_, err := newPublic(srv).FetchPublic(context.Background(), "76561197960287930")
	assert.True(t, errors.Is(err, ErrProfileNotFound))
}

func TestPublicSource_EmptyBody(t *testing.T) {
	srv, _ := feedServer(t, http.StatusOK, "  \n")

	_, err := newPublic(srv).FetchPublic(context.Background(), "rabscuttle")
	assert.True(t, errors.Is(err, ErrParse))
}

func TestPublicSource_NonSuccessStatus(t *testing.T) {
	srv, _ := feedServer(t, http.StatusBadGateway, "bad gateway")

	_, err := newPublic(srv).FetchPublic(context.Background(), "rabscuttle")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetwork))
	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, http.StatusBadGateway, netErr.Status)
}

func TestPublicSource_InvalidHours(t *testing.T) {
	srv, _ := feedServer(t, http.StatusOK,
		`<profile><mostPlayedGames><mostPlayedGame><gameName>X</gameName><hoursOnRecord>lots</hoursOnRecord></mostPlayedGame></mostPlayedGames></profile>`)

	_, err := newPublic(srv).FetchPublic(context.Background(), "rabscuttle")
	assert.True(t, errors.Is(err, ErrParse))
}

func TestParseHours(t *testing.T) {
	cases := map[string]float64{
		"1,234":     1234,
		"10":        10,
		"0.5":       0.5,
		"":          0,
		" 2,000.25": 2000.25,
	}
	for raw, want := range cases {
		got, err := parseHours(raw)
		require.NoError(t, err, raw)
		assert.InDelta(t, want, got, 0.0001, raw)
	}
}

func TestPresenceFromFeed(t *testing.T) {
	p, msg := presenceFromFeed("in-game", "In-Game<br/>Dota 2")
	assert.Equal(t, models.PresenceInGame, p)
	assert.Equal(t, "In-Game - Dota 2", msg)

	p, _ = presenceFromFeed("online", "Away")
	assert.Equal(t, models.PresenceAway, p)

	p, _ = presenceFromFeed("offline", "Last Online 3 days ago")
	assert.Equal(t, models.PresenceOffline, p)
}
