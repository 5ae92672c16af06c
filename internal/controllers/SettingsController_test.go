package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"steamdash/internal/testutil"
	"steamdash/internal/views"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validKey = "0123456789ABCDEF0123456789abcdef"

func itoa(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func newSettingsController(svc *mockService, settings *testutil.MockSettings, view *views.Dashboard) *SettingsController {
	return NewSettingsController(&mockLogger{}, settings, svc, view)
}

func TestGetSettings_MasksCredential(t *testing.T) {
	settings := &testutil.MockSettings{AccountID: "rabscuttle", Credential: validKey}
	sc := newSettingsController(&mockService{}, settings, views.NewDashboard(&mockLogger{}))

	rr := httptest.NewRecorder()
	sc.GetSettings(rr, httptest.NewRequest(http.MethodGet, "/api/settings", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode(t, rr)
	assert.Equal(t, "rabscuttle", resp["account_id"])
	assert.Equal(t, true, resp["has_credential"])
	assert.NotContains(t, rr.Body.String(), validKey)
	assert.True(t, strings.HasSuffix(resp["api_key"].(string), "cdef"))
}

func TestPutSettings_Applies(t *testing.T) {
	svc := &mockService{}
	view := views.NewDashboard(&mockLogger{})
	view.PromptCredential("Re-enter your API key")
	sc := newSettingsController(svc, &testutil.MockSettings{}, view)

	body := `{"account_id":" rabscuttle ","api_key":"` + validKey + `"}`
	rr := httptest.NewRecorder()
	sc.PutSettings(rr, httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, svc.applied, 1)
	assert.Equal(t, [2]string{"rabscuttle", validKey}, svc.applied[0])
	assert.Empty(t, view.Snapshot().Prompt)
	assert.NotContains(t, rr.Body.String(), validKey)
}

func TestPutSettings_DetachedFromClient(t *testing.T) {
	svc := &mockService{}
	sc := newSettingsController(svc, &testutil.MockSettings{}, views.NewDashboard(&mockLogger{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	body := `{"account_id":"rabscuttle","api_key":"` + validKey + `"}`
	req := httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader(body)).WithContext(ctx)
	rr := httptest.NewRecorder()
	sc.PutSettings(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, svc.applied, 1)
	assert.False(t, svc.ctxCancelled, "a client hang-up must not cancel the refresh cycle")
}

func TestPutSettings_EmptyKeyAllowed(t *testing.T) {
	svc := &mockService{}
	sc := newSettingsController(svc, &testutil.MockSettings{}, views.NewDashboard(&mockLogger{}))

	rr := httptest.NewRecorder()
	sc.PutSettings(rr, httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader(`{"account_id":"rabscuttle"}`)))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, [2]string{"rabscuttle", ""}, svc.applied[0])
}

func TestPutSettings_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing account", `{"api_key":"` + validKey + `"}`},
		{"account too long", `{"account_id":"` + strings.Repeat("a", 65) + `"}`},
		{"malformed key", `{"account_id":"rabscuttle","api_key":"not-a-key"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			sc := newSettingsController(svc, &testutil.MockSettings{}, views.NewDashboard(&mockLogger{}))

			rr := httptest.NewRecorder()
			sc.PutSettings(rr, httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader(tt.body)))

			assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
			assert.Empty(t, svc.applied)
		})
	}
}

func TestPutSettings_InvalidJSON(t *testing.T) {
	sc := newSettingsController(&mockService{}, &testutil.MockSettings{}, views.NewDashboard(&mockLogger{}))

	rr := httptest.NewRecorder()
	sc.PutSettings(rr, httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader("not json")))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPutSettings_ApplyFailure(t *testing.T) {
	svc := &mockService{applyErr: errors.New("disk full")}
	sc := newSettingsController(svc, &testutil.MockSettings{}, views.NewDashboard(&mockLogger{}))

	rr := httptest.NewRecorder()
	sc.PutSettings(rr, httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader(`{"account_id":"rabscuttle"}`)))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestMaskCredential(t *testing.T) {
	assert.Equal(t, "", maskCredential(""))
	assert.Equal(t, "***", maskCredential("abc"))
	assert.Equal(t, "****5678", maskCredential("12345678"))
}
