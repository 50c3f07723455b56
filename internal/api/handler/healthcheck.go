package handler

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// SessionCounter informa quantas sessões estão abertas
type SessionCounter interface {
	ActiveSessions() int
}

func HealthcheckHandler(sessions SessionCounter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":          "ok",
			"time":            time.Now().Format(time.RFC3339),
			"active_sessions": sessions.ActiveSessions(),
		})
		logrus.Debug("healthcheck respondido")
	})
}
