package interfaces

type SettingsStoreInterface interface {
	GetAccountID() string
	GetCredential() string
	Apply(accountID, apiKey string) (bool, error)
	Restore() error
	Persist() error
}
