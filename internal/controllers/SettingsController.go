package controllers

import (
	"context"
	"net/http"
	"steamdash/internal/providers"
	"steamdash/internal/services"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/gookit/validate"
)

type settingsRequest struct {
	AccountID string `json:"account_id" validate:"required|maxLen:64"`
	APIKey    string `json:"api_key" validate:"regex:^[0-9A-Fa-f]{32}$"`
}

type settingsResponse struct {
	AccountID     string `json:"account_id"`
	APIKey        string `json:"api_key,omitempty"`
	HasCredential bool   `json:"has_credential"`
}

type SettingsController struct {
	logger   providers.Logger
	settings services.SettingsReader
	service  services.DashboardServiceInterface
	view     DashboardViewInterface
}

func NewSettingsController(logger providers.Logger, settings services.SettingsReader, service services.DashboardServiceInterface, view DashboardViewInterface) *SettingsController {
	return &SettingsController{
		logger:   logger,
		settings: settings,
		service:  service,
		view:     view,
	}
}

// maskCredential keeps the last four characters.
func maskCredential(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

func (sc *SettingsController) GetSettings(w http.ResponseWriter, r *http.Request) {
	key := sc.settings.GetCredential()
	respond(w, http.StatusOK, settingsResponse{
		AccountID:     sc.settings.GetAccountID(),
		APIKey:        maskCredential(key),
		HasCredential: key != "",
	})
}

func (sc *SettingsController) PutSettings(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	payload.AccountID = strings.TrimSpace(payload.AccountID)
	payload.APIKey = strings.TrimSpace(payload.APIKey)

	v := validate.Struct(&payload)
	if !v.Validate() {
		http.Error(w, v.Errors.One(), http.StatusUnprocessableEntity)
		return
	}

	if err := sc.service.ApplySettings(context.WithoutCancel(r.Context()), payload.AccountID, payload.APIKey); err != nil {
		sc.logger.Errorf(providers.TypeHttp, "Error while applying settings: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	sc.view.DismissPrompt()

	respond(w, http.StatusOK, settingsResponse{
		AccountID:     payload.AccountID,
		APIKey:        maskCredential(payload.APIKey),
		HasCredential: payload.APIKey != "",
	})
}
