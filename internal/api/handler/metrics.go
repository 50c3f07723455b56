package handler

import (
	"net/http"

	"github.com/vfg2006/sales-dashboard-api/pkg/metrics"
)

func MetricsHandler(m *metrics.Metrics) http.Handler {
	return m.Handler()
}
