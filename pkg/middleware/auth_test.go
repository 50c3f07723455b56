package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/authenticating/mocks"
	"go.uber.org/mock/gomock"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthAndRoleMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		enabled    bool
		header     string
		setup      func(auth *mocks.MockAuthenticator)
		wantStatus int
	}{
		{
			name:       "Autenticação desativada - deve liberar edição",
			enabled:    false,
			wantStatus: http.StatusOK,
		},
		{
			name:       "Sem token - edição deve ser negada",
			enabled:    true,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Cabeçalho sem Bearer - deve ser rejeitado",
			enabled:    true,
			header:     "Basic abc",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:    "Token expirado - deve ser rejeitado",
			enabled: true,
			header:  "Bearer expirado",
			setup: func(auth *mocks.MockAuthenticator) {
				auth.EXPECT().ValidateToken("expirado").Return(nil, authenticating.ErrExpiredToken)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:    "Token de editor - deve liberar edição",
			enabled: true,
			header:  "Bearer valido",
			setup: func(auth *mocks.MockAuthenticator) {
				auth.EXPECT().ValidateToken("valido").Return(&domain.EditorClaims{Email: "e@x.com", Role: domain.RoleEditor}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:    "Token sem papel de editor - deve retornar 403",
			enabled: true,
			header:  "Bearer leitor",
			setup: func(auth *mocks.MockAuthenticator) {
				auth.EXPECT().ValidateToken("leitor").Return(&domain.EditorClaims{Email: "v@x.com", Role: "viewer"}, nil)
			},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			auth := mocks.NewMockAuthenticator(ctrl)
			auth.EXPECT().Enabled().Return(tt.enabled).AnyTimes()
			if tt.setup != nil {
				tt.setup(auth)
			}

			h := AuthMiddleware(auth)(EditorOnly(auth)(okHandler()))

			req := httptest.NewRequest(http.MethodPost, "/v1/sessions/abc/save", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestAuthMiddleware_PublicRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)
	auth := mocks.NewMockAuthenticator(ctrl)
	auth.EXPECT().Enabled().Return(true).AnyTimes()

	h := AuthMiddleware(auth)(okHandler())

	for _, path := range []string{"/v1/login", "/healthcheck", "/v1/sessions/abc/dashboard"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestCors(t *testing.T) {
	h := Cors([]string{"http://localhost:8501"})(okHandler())

	t.Run("Origem permitida - deve expor Content-Disposition", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/sessions/abc/export", nil)
		req.Header.Set("Origin", "http://localhost:8501")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "http://localhost:8501", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
		assert.Equal(t, "Origin", rec.Header().Get("Vary"))
	})

	t.Run("Origem desconhecida - não deve receber cabeçalhos", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://malicioso.com")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Preflight - deve responder sem chamar o handler", func(t *testing.T) {
		called := false
		preflight := Cors([]string{"*"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))

		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "http://qualquer.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPut)
		rec := httptest.NewRecorder()
		preflight.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.False(t, called)
	})

	t.Run("Preflight de origem desconhecida - deve retornar 403", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "http://malicioso.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPut)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
