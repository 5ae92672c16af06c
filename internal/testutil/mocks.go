package testutil

import (
	"steamdash/internal/models"
	"steamdash/internal/providers"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// CountLevel returns how many entries were logged at the given level.
func (m *MockLogger) CountLevel(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

// MockMetrics implements providers.MetricsProviderInterface.
type MockMetrics struct {
	mu            sync.Mutex
	Upstream      map[string]int // key: "source:outcome"
	Refreshes     map[string]int
	AuthFailures  int
	EnrichedGames int
	CacheHits     int
	CacheMisses   int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration)       {}

func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

func (m *MockMetrics) ObserveUpstream(source, outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Upstream == nil {
		m.Upstream = make(map[string]int)
	}
	m.Upstream[source+":"+outcome]++
}

func (m *MockMetrics) IncRefresh(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Refreshes == nil {
		m.Refreshes = make(map[string]int)
	}
	m.Refreshes[outcome]++
}

func (m *MockMetrics) SetAuthFailures(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AuthFailures = count
}

func (m *MockMetrics) AddEnrichedGames(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EnrichedGames += count
}

func (m *MockMetrics) UpstreamCount(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Upstream[key]
}

func (m *MockMetrics) RefreshCount(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Refreshes[outcome]
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}

// MockSettings implements the settings store in memory.
type MockSettings struct {
	mu         sync.Mutex
	AccountID  string
	Credential string
	ApplyCalls int
	PersistErr error
}

func (m *MockSettings) GetAccountID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.AccountID
}

func (m *MockSettings) GetCredential() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Credential
}

func (m *MockSettings) Apply(accountID, apiKey string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ApplyCalls++
	changed := m.AccountID != accountID || m.Credential != apiKey
	m.AccountID = accountID
	m.Credential = apiKey
	return changed, m.PersistErr
}

func (m *MockSettings) Restore() error { return nil }
func (m *MockSettings) Persist() error { return m.PersistErr }

// MockView records calls made to the rendering, notification, busy and
// credential prompt collaborators.
type MockView struct {
	mu              sync.Mutex
	Profiles        []*models.Profile
	AuthModes       []bool
	GameListRenders int
	Errors          []string
	Notices         []models.Notice
	BusyLabels      []string
	ClearBusyCalls  int
	Prompts         []string
}

func (m *MockView) RenderProfile(profile *models.Profile, isAuthMode bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Profiles = append(m.Profiles, profile)
	m.AuthModes = append(m.AuthModes, isAuthMode)
}

func (m *MockView) RenderGamesList() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GameListRenders++
}

func (m *MockView) ShowError(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors = append(m.Errors, message)
}

func (m *MockView) Notify(message string, severity models.Severity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notices = append(m.Notices, models.Notice{Message: message, Severity: severity})
}

func (m *MockView) ShowBusy(label string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BusyLabels = append(m.BusyLabels, label)
}

func (m *MockView) ClearBusy() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearBusyCalls++
}

func (m *MockView) PromptCredential(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prompts = append(m.Prompts, message)
}

func (m *MockView) PromptCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}

func (m *MockView) ErrorCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Errors)
}

func (m *MockView) GameListRenderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.GameListRenders
}

// NoticesWith returns notices of the given severity.
func (m *MockView) NoticesWith(severity models.Severity) []models.Notice {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Notice
	for _, n := range m.Notices {
		if n.Severity == severity {
			out = append(out, n)
		}
	}
	return out
}
