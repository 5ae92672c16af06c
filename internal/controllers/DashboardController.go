package controllers

import (
	"context"
	"errors"
	"net/http"
	"steamdash/internal/models"
	"steamdash/internal/providers"
	"steamdash/internal/services"
	"steamdash/internal/structures"
	"steamdash/internal/views"
	"strconv"
	"time"

	"github.com/felixgeelhaar/fortify/ratelimit"
	json "github.com/goccy/go-json"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type DashboardViewInterface interface {
	Snapshot() views.Snapshot
	DismissPrompt()
}

type DashboardController struct {
	logger  providers.Logger
	service services.DashboardServiceInterface
	view    DashboardViewInterface
	cache   providers.CacheProviderInterface
	limiter ratelimit.RateLimiter
}

type statusResponse struct {
	services.Status
	Revision uint64          `json:"revision"`
	Busy     string          `json:"busy,omitempty"`
	Error    string          `json:"error,omitempty"`
	Prompt   string          `json:"prompt,omitempty"`
	Notices  []models.Notice `json:"notices"`
}

type refreshResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func NewDashboardController(conf *structures.Config, logger providers.Logger, service services.DashboardServiceInterface, view DashboardViewInterface, cache providers.CacheProviderInterface) *DashboardController {
	dc := &DashboardController{
		logger:  logger,
		service: service,
		view:    view,
		cache:   cache,
	}
	if perMinute := conf.Refresh.ManualPerMinute; perMinute > 0 {
		dc.limiter = ratelimit.New(&ratelimit.Config{
			Rate:     perMinute,
			Burst:    perMinute,
			Interval: time.Minute,
		})
	}
	return dc
}

func writeJSON(w http.ResponseWriter, status int, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

func respond(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, status, gson)
}

func (dc *DashboardController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := dc.cache.Get(cacheKey); ok {
		writeJSON(w, http.StatusOK, data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	dc.cache.Set(cacheKey, gson)
	writeJSON(w, http.StatusOK, gson)
}

func (dc *DashboardController) GetProfile(w http.ResponseWriter, r *http.Request) {
	snap := dc.view.Snapshot()
	if snap.Profile == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	dc.serveFromCacheOrCompute(w, "profile:"+strconv.FormatUint(snap.Revision, 10), func() (any, error) {
		return views.BuildProfile(snap.Profile, snap.AuthMode, snap.Enriching), nil
	})
}

func (dc *DashboardController) GetGames(w http.ResponseWriter, r *http.Request) {
	key := models.SortKey(r.URL.Query().Get("sort"))
	if key == "" {
		key = models.SortByHours
	}
	if !key.Valid() {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	snap := dc.view.Snapshot()
	dc.serveFromCacheOrCompute(w, "games:"+string(key)+":"+strconv.FormatUint(snap.Revision, 10), func() (any, error) {
		return views.BuildGames(snap.Profile, key), nil
	})
}

func (dc *DashboardController) GetStatus(w http.ResponseWriter, r *http.Request) {
	snap := dc.view.Snapshot()
	respond(w, http.StatusOK, statusResponse{
		Status:   dc.service.Status(),
		Revision: snap.Revision,
		Busy:     snap.Busy,
		Error:    snap.Error,
		Prompt:   snap.Prompt,
		Notices:  snap.Notices,
	})
}

// Refresh runs a fetch cycle for an explicit user action. The cycle is not
// tied to the client connection.
func (dc *DashboardController) Refresh(w http.ResponseWriter, r *http.Request) {
	if dc.limiter != nil && !dc.limiter.Allow(r.Context(), "refresh") {
		http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
		return
	}

	err := dc.service.Refresh(context.WithoutCancel(r.Context()))
	switch {
	case err == nil:
		respond(w, http.StatusOK, refreshResponse{Status: "published"})
	case errors.Is(err, services.ErrRefreshInProgress):
		respond(w, http.StatusConflict, refreshResponse{Status: "loading", Error: err.Error()})
	default:
		dc.logger.Debugf(providers.TypeFetch, "Manual refresh failed: %s", err)
		respond(w, http.StatusOK, refreshResponse{Status: "failed", Error: dc.view.Snapshot().Error})
	}
}
