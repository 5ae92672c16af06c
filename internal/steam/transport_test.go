package steam

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"steamdash/internal/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransport_DirectRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/feed", r.URL.Path)
		_, _ = w.Write([]byte("hello"))
	}))
	defer srv.Close()

	metrics := &testutil.MockMetrics{}
	tr := NewTransport(testConfig("", ""), &testutil.MockLogger{}, metrics)

	resp, err := tr.Get(context.Background(), srv.URL+"/feed", time.Second, SourcePublic)
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, "hello", string(resp.Body))
	assert.Equal(t, 1, metrics.UpstreamCount("public:ok"))
}

func TestTransport_RelayPrefix(t *testing.T) {
	target := "https://steamcommunity.com/id/gabe/?xml=1"
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, target, r.URL.Query().Get("url"))
		_, _ = w.Write([]byte("relayed"))
	}))
	defer relay.Close()

	conf := testConfig("", "")
	conf.Steam.RelayURL = relay.URL + "/?url="
	tr := NewTransport(conf, &testutil.MockLogger{}, &testutil.MockMetrics{})

	resp, err := tr.Get(context.Background(), target, time.Second, SourcePublic)
	require.NoError(t, err)
	assert.Equal(t, "relayed", string(resp.Body))
}

func TestTransport_NonSuccessIsReturned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	metrics := &testutil.MockMetrics{}
	tr := NewTransport(testConfig("", ""), &testutil.MockLogger{}, metrics)

	resp, err := tr.Get(context.Background(), srv.URL, time.Second, SourceAPI)
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, 1, metrics.UpstreamCount("api:status"))
}

func TestTransport_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(500 * time.Millisecond):
		}
	}))
	defer srv.Close()

	metrics := &testutil.MockMetrics{}
	tr := NewTransport(testConfig("", ""), &testutil.MockLogger{}, metrics)

	_, err := tr.Get(context.Background(), srv.URL+"/slow?key=secret", 20*time.Millisecond, SourceAuxiliary)
	require.Error(t, err)
	assert.True(t, IsTimeout(err))
	assert.True(t, errors.Is(err, ErrNetwork))
	assert.NotContains(t, err.Error(), "secret")
	assert.Equal(t, 1, metrics.UpstreamCount("auxiliary:timeout"))
}

func TestTransport_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	metrics := &testutil.MockMetrics{}
	tr := NewTransport(testConfig("", ""), &testutil.MockLogger{}, metrics)

	_, err := tr.Get(context.Background(), addr, time.Second, SourcePublic)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetwork))
	assert.False(t, IsTimeout(err))
	assert.Equal(t, 1, metrics.UpstreamCount("public:error"))
}

func TestSafeURL_DropsQuery(t *testing.T) {
	assert.Equal(t, "https://api.steampowered.com/ISteamUser/GetPlayerSummaries/v2/",
		safeURL("https://api.steampowered.com/ISteamUser/GetPlayerSummaries/v2/?key=abc&steamids=1"))
}
