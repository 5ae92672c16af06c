package storage

import (
	"steamdash/internal/models"
	"steamdash/internal/providers"
	"steamdash/internal/storage/interfaces"
	"steamdash/internal/structures"
	"sync"
	"time"
)

const (
	keyAccountID = "accountId"
	keyAPIKey    = "apiKey"
)

// SettingsStore is the durable key-value store behind the settings form.
// Keys are namespaced so the file can be shared with other local tools.
type SettingsStore struct {
	mu          sync.RWMutex
	values      map[string]string
	namespace   string
	filePath    string
	fileManager *FileManager
	logger      providers.Logger
	metrics     providers.MetricsProviderInterface
}

func NewSettingsStore(conf *structures.Config, fileManager *FileManager, logger providers.Logger, metrics providers.MetricsProviderInterface) interfaces.SettingsStoreInterface {
	s := &SettingsStore{
		values:      make(map[string]string),
		namespace:   conf.Settings.Namespace,
		filePath:    conf.Settings.FilePath,
		fileManager: fileManager,
		logger:      logger,
		metrics:     metrics,
	}
	// config and environment seed the store until the user saves settings
	s.values[s.key(keyAccountID)] = conf.Steam.AccountID
	s.values[s.key(keyAPIKey)] = conf.Steam.APIKey
	return s
}

func (s *SettingsStore) key(name string) string {
	if s.namespace == "" {
		return name
	}
	return s.namespace + "." + name
}

func (s *SettingsStore) get(name string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[s.key(name)]
}

func (s *SettingsStore) GetAccountID() string {
	return s.get(keyAccountID)
}

func (s *SettingsStore) GetCredential() string {
	return s.get(keyAPIKey)
}

// Apply stores both values and persists them. It reports whether either
// value changed.
func (s *SettingsStore) Apply(accountID, apiKey string) (bool, error) {
	s.mu.Lock()
	changed := s.values[s.key(keyAccountID)] != accountID || s.values[s.key(keyAPIKey)] != apiKey
	s.values[s.key(keyAccountID)] = accountID
	s.values[s.key(keyAPIKey)] = apiKey
	s.mu.Unlock()

	if !changed {
		return false, nil
	}
	return true, s.Persist()
}

func (s *SettingsStore) Restore() error {
	storage, err := s.fileManager.LoadFromFile(s.filePath)
	if err != nil {
		return err
	}
	if storage == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range storage.Values {
		s.values[k] = v
	}
	s.logger.Infof(providers.TypeApp, "Restored %d settings from %s", len(storage.Values), s.filePath)
	return nil
}

func (s *SettingsStore) Persist() error {
	start := time.Now()

	s.mu.RLock()
	values := make(map[string]string, len(s.values))
	for k, v := range s.values {
		values[k] = v
	}
	s.mu.RUnlock()

	err := s.fileManager.SaveToFile(s.filePath, &models.SettingsStorage{
		Version: models.SettingsVersion,
		Values:  values,
	})
	s.metrics.ObservePersistenceDuration(time.Since(start))
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting settings: %s", err)
		return err
	}
	return nil
}
