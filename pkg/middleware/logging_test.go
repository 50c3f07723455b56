package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/sales-dashboard-api/pkg/metrics"
)

func TestSessionFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/v1/sessions/abc123/dashboard", "abc123"},
		{"/v1/sessions/abc123", "abc123"},
		{"/v1/sessions", ""},
		{"/healthcheck", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, sessionFromPath(tt.path))
		})
	}
}

func TestLoggingMiddleware(t *testing.T) {
	m := metrics.New()
	h := LoggingMiddleware(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte("{}"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/sessions/abc/export", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "{}", rec.Body.String())
	count, err := testutil.GatherAndCount(m.Registry(), "sales_dashboard_http_request_duration_seconds")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestLogPanicMiddleware(t *testing.T) {
	h := LogPanicMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("falha inesperada")
	}))

	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/sessions/abc/dashboard", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"code":"SRV_001","message":"Erro interno no servidor"}`, rec.Body.String())
}
