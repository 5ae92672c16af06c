package models

const SettingsVersion = 1

// SettingsStorage is the on-disk envelope for the local key-value settings.
type SettingsStorage struct {
	Version int               `json:"version"`
	Values  map[string]string `json:"values"`
}
