package services

import (
	"context"
	"errors"
	"fmt"
	"steamdash/internal/models"
	"steamdash/internal/steam"
	"steamdash/internal/structures"
	"steamdash/internal/testutil"
	"sync"
	"time"
)

func testConfig() *structures.Config {
	return &structures.Config{
		Steam: structures.SteamConfig{
			RequestTimeout:   time.Second,
			AuxiliaryTimeout: time.Second,
		},
		Enrichment: structures.EnrichmentConfig{
			BatchSize:  10,
			BatchDelay: time.Millisecond,
		},
		Refresh: structures.RefreshConfig{
			MaxAuthFailures: 2,
		},
	}
}

func libraryProfile(source models.Source, played, unplayed int) *models.Profile {
	games := make([]*models.Game, 0, played+unplayed)
	for i := 0; i < played; i++ {
		games = append(games, &models.Game{AppID: i + 1, Name: fmt.Sprintf("Played %d", i+1), HoursTotal: float64(i + 1)})
	}
	for i := 0; i < unplayed; i++ {
		games = append(games, &models.Game{AppID: 1000 + i, Name: fmt.Sprintf("Backlog %d", i+1)})
	}
	p := &models.Profile{SteamID: "76561197960287930", PersonaName: "Rabscuttle", Source: source, Games: games}
	p.ApplyAggregate()
	return p
}

type fakePublic struct {
	mu      sync.Mutex
	profile func() (*models.Profile, error)
	calls   int
}

func (f *fakePublic) FetchPublic(_ context.Context, _ string) (*models.Profile, error) {
	f.mu.Lock()
	f.calls++
	fn := f.profile
	f.mu.Unlock()
	return fn()
}

func (f *fakePublic) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeAPI serves profiles and per-game achievements. When gate is set, every
// lookup blocks until it is closed.
type fakeAPI struct {
	mu           sync.Mutex
	profile      func() (*models.Profile, error)
	authCalls    int
	achievements map[int]*models.Achievements
	achErr       map[int]error
	achCalls     int
	gate         chan struct{}
	authGate     chan struct{}
	started      chan struct{}
	startOnce    sync.Once
}

func (f *fakeAPI) FetchAuthenticated(_ context.Context, _, _ string) (*models.Profile, error) {
	f.mu.Lock()
	f.authCalls++
	fn := f.profile
	gate := f.authGate
	f.mu.Unlock()
	if gate != nil {
		f.signalStarted()
		<-gate
	}
	return fn()
}

func (f *fakeAPI) FetchAchievements(_ context.Context, _, _ string, appID int) (*models.Achievements, error) {
	f.mu.Lock()
	f.achCalls++
	gate := f.gate
	a := f.achievements[appID]
	err := f.achErr[appID]
	f.mu.Unlock()
	if gate != nil {
		f.signalStarted()
		<-gate
	}
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, nil
	}
	copied := *a
	return &copied, nil
}

func (f *fakeAPI) signalStarted() {
	f.startOnce.Do(func() {
		if f.started != nil {
			close(f.started)
		}
	})
}

func (f *fakeAPI) AuthCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.authCalls
}

func (f *fakeAPI) AchievementCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.achCalls
}

func authRejected() (*models.Profile, error) {
	return nil, fmt.Errorf("%w: status 403", steam.ErrAuth)
}

// fixedGuard treats one token as current.
type fixedGuard struct {
	mu    sync.Mutex
	token uint64
}

func (g *fixedGuard) IsCurrent(token uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.token == token
}

func (g *fixedGuard) ApplyIfCurrent(token uint64, fn func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.token != token {
		return false
	}
	fn()
	return true
}

type dashboardFixture struct {
	service  *DashboardService
	public   *fakePublic
	api      *fakeAPI
	view     *testutil.MockView
	settings *testutil.MockSettings
	metrics  *testutil.MockMetrics
}

func newDashboardFixture(apiKey string) *dashboardFixture {
	conf := testConfig()
	view := &testutil.MockView{}
	logger := &testutil.MockLogger{}
	metrics := &testutil.MockMetrics{}
	settings := &testutil.MockSettings{AccountID: "rabscuttle", Credential: apiKey}
	public := &fakePublic{profile: func() (*models.Profile, error) {
		return libraryProfile(models.SourcePublic, 3, 0), nil
	}}
	api := &fakeAPI{
		profile: func() (*models.Profile, error) {
			return libraryProfile(models.SourceAPI, 3, 1), nil
		},
		achievements: map[int]*models.Achievements{},
	}
	enricher := NewEnrichmentService(conf, api, view, view, logger, metrics)
	service := NewDashboardService(conf, public, api, enricher, settings, view, view, view, view, logger, metrics)
	return &dashboardFixture{
		service:  service,
		public:   public,
		api:      api,
		view:     view,
		settings: settings,
		metrics:  metrics,
	}
}

func isAuth(err error) bool {
	return errors.Is(err, steam.ErrAuth)
}
