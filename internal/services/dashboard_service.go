package services

import (
	"context"
	"errors"
	"fmt"
	"steamdash/internal/models"
	"steamdash/internal/providers"
	"steamdash/internal/steam"
	"steamdash/internal/storage/interfaces"
	"steamdash/internal/structures"
	"sync"
	"time"

	"go.uber.org/atomic"
)

var (
	ErrRefreshInProgress = errors.New("refresh already in progress")
	ErrNoAccount         = errors.New("no steam account configured")
)

type State int32

const (
	StateIdle State = iota
	StateLoading
	StatePublished
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StatePublished:
		return "published"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

type Status struct {
	State        string        `json:"state"`
	Cycle        uint64        `json:"cycle"`
	AuthMode     bool          `json:"auth_mode"`
	AuthFailures int           `json:"auth_failures"`
	Source       models.Source `json:"source,omitempty"`
	LastError    string        `json:"last_error,omitempty"`
	PublishedAt  *time.Time    `json:"published_at,omitempty"`
}

type DashboardServiceInterface interface {
	Refresh(ctx context.Context) error
	ApplySettings(ctx context.Context, accountID, apiKey string) error
	Profile() *models.Profile
	Status() Status
	Close()
}

// DashboardService owns the published profile and the fetch state machine.
// Every fetch cycle gets a new token; background work from an older cycle
// can no longer touch published state once a newer cycle has started.
type DashboardService struct {
	public          steam.PublicSourceInterface
	api             steam.APISourceInterface
	enricher        EnrichmentServiceInterface
	settings        interfaces.SettingsStoreInterface
	renderer        Renderer
	notifier        Notifier
	busy            BusyIndicator
	prompter        CredentialPrompter
	logger          providers.Logger
	metrics         providers.MetricsProviderInterface
	maxAuthFailures int

	token        atomic.Uint64
	state        atomic.Int32
	authMode     atomic.Bool
	authFailures atomic.Int32
	rerun        atomic.Bool

	// publishMu guards everything below and every mutation of the
	// published profile, including enrichment results.
	publishMu   sync.Mutex
	profile     *models.Profile
	lastErr     string
	publishedAt time.Time
	enrichDone  <-chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
}

func NewDashboardService(
	conf *structures.Config,
	public steam.PublicSourceInterface,
	api steam.APISourceInterface,
	enricher EnrichmentServiceInterface,
	settings interfaces.SettingsStoreInterface,
	renderer Renderer,
	notifier Notifier,
	busy BusyIndicator,
	prompter CredentialPrompter,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
) *DashboardService {
	maxFailures := conf.Refresh.MaxAuthFailures
	if maxFailures <= 0 {
		maxFailures = 2
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &DashboardService{
		public:          public,
		api:             api,
		enricher:        enricher,
		settings:        settings,
		renderer:        renderer,
		notifier:        notifier,
		busy:            busy,
		prompter:        prompter,
		logger:          logger,
		metrics:         metrics,
		maxAuthFailures: maxFailures,
		ctx:             ctx,
		cancel:          cancel,
	}
	s.authMode.Store(true)
	return s
}

func (s *DashboardService) IsCurrent(token uint64) bool {
	return s.token.Load() == token
}

func (s *DashboardService) ApplyIfCurrent(token uint64, fn func()) bool {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()
	if s.token.Load() != token {
		return false
	}
	fn()
	return true
}

func (s *DashboardService) enterLoading() bool {
	for {
		cur := s.state.Load()
		if State(cur) == StateLoading {
			return false
		}
		if s.state.CompareAndSwap(cur, int32(StateLoading)) {
			return true
		}
	}
}

// Refresh runs one fetch cycle. A call made while another cycle is loading
// does nothing and returns ErrRefreshInProgress.
func (s *DashboardService) Refresh(ctx context.Context) error {
	if !s.enterLoading() {
		return ErrRefreshInProgress
	}
	// this cycle reads the latest settings, so a pending rerun is satisfied
	s.rerun.Store(false)
	defer s.afterRefresh()

	token := s.token.Inc()
	s.busy.ShowBusy("Loading Steam profile")
	defer s.busy.ClearBusy()

	accountID := s.settings.GetAccountID()
	if accountID == "" {
		s.fail("Enter a Steam ID or vanity name in settings")
		return ErrNoAccount
	}

	apiKey := s.settings.GetCredential()
	if s.authMode.Load() && apiKey != "" {
		profile, err := s.api.FetchAuthenticated(ctx, accountID, apiKey)
		if err == nil {
			s.authFailures.Store(0)
			s.metrics.SetAuthFailures(0)
			s.publish(profile, true)
			s.metrics.IncRefresh("api")
			s.startEnrichment(profile, token, apiKey)
			s.logger.Infof(providers.TypeFetch, "Cycle %d published %d games for %s from the API", token, profile.TotalGames, accountID)
			return nil
		}

		failures := int(s.authFailures.Inc())
		s.metrics.SetAuthFailures(failures)
		s.logger.Warnf(providers.TypeFetch, "Authenticated fetch failed (%d in a row): %s", failures, err)

		if failures >= s.maxAuthFailures {
			s.authMode.Store(false)
			s.state.Store(int32(StateFailed))
			s.metrics.IncRefresh("auth_disabled")
			s.prompter.PromptCredential("Steam rejected the API key. Re-enter your credentials to restore full stats.")
			return fmt.Errorf("authenticated mode disabled: %w", err)
		}
		s.notifier.Notify("Steam API unavailable, using basic mode", models.SeverityWarning)
	}

	profile, err := s.public.FetchPublic(ctx, accountID)
	if err != nil {
		s.logger.Errorf(providers.TypeFetch, "Public fetch for %s failed: %s", accountID, err)
		s.fail(describeFailure(err))
		return err
	}

	s.publish(profile, false)
	s.metrics.IncRefresh("public")
	s.logger.Infof(providers.TypeFetch, "Cycle %d published %d games for %s from the public feed", token, profile.TotalGames, accountID)
	return nil
}

func (s *DashboardService) afterRefresh() {
	if s.rerun.CompareAndSwap(true, false) {
		go func() {
			if err := s.Refresh(s.ctx); err != nil && !errors.Is(err, ErrRefreshInProgress) {
				s.logger.Debugf(providers.TypeFetch, "Deferred refresh failed: %s", err)
			}
		}()
	}
}

func (s *DashboardService) publish(profile *models.Profile, authMode bool) {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.profile = profile
	s.lastErr = ""
	s.publishedAt = time.Now()
	s.state.Store(int32(StatePublished))
	s.renderer.RenderProfile(profile, authMode)
	s.renderer.RenderGamesList()
}

// fail keeps the last published profile on screen.
func (s *DashboardService) fail(message string) {
	s.publishMu.Lock()
	s.lastErr = message
	s.state.Store(int32(StateFailed))
	s.renderer.ShowError(message)
	s.publishMu.Unlock()

	s.notifier.Notify(message, models.SeverityError)
	s.metrics.IncRefresh("failed")
}

func (s *DashboardService) startEnrichment(profile *models.Profile, token uint64, apiKey string) {
	done := s.enricher.Enrich(s.ctx, EnrichRequest{
		Profile: profile,
		Token:   token,
		SteamID: profile.SteamID,
		APIKey:  apiKey,
		Guard:   s,
	})
	if done == nil {
		return
	}
	s.publishMu.Lock()
	s.enrichDone = done
	s.publishMu.Unlock()
}

// WaitEnrichment blocks until the most recently started enrichment run exits.
func (s *DashboardService) WaitEnrichment() {
	s.publishMu.Lock()
	done := s.enrichDone
	s.publishMu.Unlock()
	if done != nil {
		<-done
	}
}

// ApplySettings stores new settings. A change to either value, or a key
// submitted while authenticated mode is disabled, clears the authentication
// failure streak and starts a refresh. Fetch failures are reported through
// the view, not returned.
func (s *DashboardService) ApplySettings(ctx context.Context, accountID, apiKey string) error {
	changed, err := s.settings.Apply(accountID, apiKey)
	if err != nil {
		return err
	}
	reenable := apiKey != "" && !s.authMode.Load()
	if !changed && !reenable {
		return nil
	}

	s.authFailures.Store(0)
	s.metrics.SetAuthFailures(0)
	s.authMode.Store(apiKey != "")
	if changed {
		s.logger.Infof(providers.TypeApp, "Settings changed, refreshing")
	} else {
		s.logger.Infof(providers.TypeApp, "API key resubmitted, retrying authenticated mode")
	}

	// set before trying so a cycle finishing in between still picks it up
	s.rerun.Store(true)
	if err := s.Refresh(ctx); err != nil && !errors.Is(err, ErrRefreshInProgress) {
		s.logger.Debugf(providers.TypeFetch, "Refresh after settings change failed: %s", err)
	}
	return nil
}

func (s *DashboardService) Profile() *models.Profile {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()
	return s.profile
}

func (s *DashboardService) Status() Status {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	st := Status{
		State:        State(s.state.Load()).String(),
		Cycle:        s.token.Load(),
		AuthMode:     s.authMode.Load(),
		AuthFailures: int(s.authFailures.Load()),
		LastError:    s.lastErr,
	}
	if s.profile != nil {
		st.Source = s.profile.Source
		published := s.publishedAt
		st.PublishedAt = &published
	}
	return st
}

// Close stops background enrichment at its next batch boundary.
func (s *DashboardService) Close() {
	s.cancel()
}

func describeFailure(err error) string {
	switch {
	case errors.Is(err, steam.ErrProfileNotFound):
		return fmt.Sprintf("Profile unavailable: %s. Make sure the profile and game details are public.", err)
	case steam.IsTimeout(err):
		return "Steam did not respond in time. Try again later."
	case errors.Is(err, steam.ErrNetwork):
		return "Could not reach Steam. Check your connection or relay settings."
	case errors.Is(err, steam.ErrParse):
		return "Steam returned an unexpected response."
	default:
		return fmt.Sprintf("Failed to load profile: %s", err)
	}
}
