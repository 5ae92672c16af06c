package services

import "steamdash/internal/models"

// Renderer draws the published profile. Calls may arrive from the refresh
// path and from the enrichment worker.
type Renderer interface {
	RenderProfile(profile *models.Profile, isAuthMode bool)
	RenderGamesList()
	ShowError(message string)
}

type Notifier interface {
	Notify(message string, severity models.Severity)
}

type BusyIndicator interface {
	ShowBusy(label string)
	ClearBusy()
}

type CredentialPrompter interface {
	PromptCredential(message string)
}

type SettingsReader interface {
	GetAccountID() string
	GetCredential() string
}

// CycleGuard lets a background worker check and mutate published state only
// while its fetch cycle is still the current one.
type CycleGuard interface {
	IsCurrent(token uint64) bool
	ApplyIfCurrent(token uint64, fn func()) bool
}
