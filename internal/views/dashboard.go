package views

import (
	"steamdash/internal/models"
	"steamdash/internal/providers"
	"sync"
	"time"
)

const maxNotices = 20

// Snapshot is a consistent copy of what the dashboard currently shows.
type Snapshot struct {
	Revision  uint64
	Profile   *models.Profile
	AuthMode  bool
	Enriching bool
	Busy      string
	Error     string
	Prompt    string
	Notices   []models.Notice
}

// Dashboard is the view model behind the HTTP surface. Every change bumps the
// revision so cached responses can be keyed on it.
type Dashboard struct {
	mu        sync.RWMutex
	revision  uint64
	profile   *models.Profile
	authMode  bool
	enriching bool
	busy      string
	errMsg    string
	prompt    string
	notices   []models.Notice
	logger    providers.Logger
}

func NewDashboard(logger providers.Logger) *Dashboard {
	return &Dashboard{
		notices: make([]models.Notice, 0, maxNotices),
		logger:  logger,
	}
}

func (d *Dashboard) RenderProfile(profile *models.Profile, isAuthMode bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.profile != profile {
		d.errMsg = ""
		d.enriching = profile != nil && profile.Source == models.SourceAPI
	}
	d.profile = profile
	d.authMode = isAuthMode
	if isAuthMode {
		d.prompt = ""
	}
	d.revision++
}

// RenderGamesList marks the game list dirty. Games are mutated in place, so
// there is nothing to copy.
func (d *Dashboard) RenderGamesList() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revision++
}

// ShowError ends the current cycle. Enrichment of the profile still on
// screen belongs to an older cycle and will not resume.
func (d *Dashboard) ShowError(message string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.errMsg = message
	d.enriching = false
	d.revision++
}

func (d *Dashboard) Notify(message string, severity models.Severity) {
	d.mu.Lock()
	if len(d.notices) == maxNotices {
		copy(d.notices, d.notices[1:])
		d.notices = d.notices[:maxNotices-1]
	}
	d.notices = append(d.notices, models.Notice{Message: message, Severity: severity, At: time.Now()})
	d.revision++
	d.mu.Unlock()

	d.logger.Infof(providers.TypeApp, "[%s] %s", severity, message)
}

func (d *Dashboard) ShowBusy(label string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.busy = label
	d.revision++
}

func (d *Dashboard) ClearBusy() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.busy = ""
	d.revision++
}

func (d *Dashboard) PromptCredential(message string) {
	d.mu.Lock()
	d.prompt = message
	d.enriching = false
	d.revision++
	d.mu.Unlock()

	d.logger.Warnf(providers.TypeApp, "Credential prompt: %s", message)
}

// DismissPrompt is called once the user has submitted new settings.
func (d *Dashboard) DismissPrompt() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.prompt != "" {
		d.prompt = ""
		d.revision++
	}
}

func (d *Dashboard) Revision() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.revision
}

func (d *Dashboard) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	notices := make([]models.Notice, len(d.notices))
	copy(notices, d.notices)
	return Snapshot{
		Revision:  d.revision,
		Profile:   d.profile,
		AuthMode:  d.authMode,
		Enriching: d.enriching,
		Busy:      d.busy,
		Error:     d.errMsg,
		Prompt:    d.prompt,
		Notices:   notices,
	}
}
