// Package metrics expõe os contadores do painel no formato do Prometheus
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sales_dashboard"

// Resultados usados como label das operações
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultEmpty   = "empty"
)

// Metrics agrupa os coletores do serviço em um registry próprio.
// Um *Metrics nulo é válido e descarta todas as medições.
type Metrics struct {
	registry        *prometheus.Registry
	sessionsActive  prometheus.Gauge
	sessionsOpened  *prometheus.CounterVec
	dashboardViews  prometheus.Counter
	filteredRows    prometheus.Histogram
	saves           *prometheus.CounterVec
	exports         *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		sessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Sessões abertas no momento",
		}),
		sessionsOpened: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_opened_total",
			Help:      "Tentativas de abertura de sessão por resultado da carga",
		}, []string{"result"}),
		dashboardViews: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dashboard_views_total",
			Help:      "Painéis calculados",
		}),
		filteredRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "filtered_rows",
			Help:      "Linhas restantes após a aplicação dos filtros",
			Buckets:   []float64{0, 10, 100, 1000, 10000, 100000},
		}),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saves_total",
			Help:      "Gravações da tabela editada por resultado",
		}, []string{"result"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Exportações de planilha por resultado",
		}, []string{"result"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duração das requisições HTTP",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.sessionsActive,
		m.sessionsOpened,
		m.dashboardViews,
		m.filteredRows,
		m.saves,
		m.exports,
		m.requestDuration,
	)

	return m
}

// Handler retorna o endpoint de coleta do registry
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry é usado nos testes para inspecionar os coletores
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.sessionsActive.Set(float64(n))
}

func (m *Metrics) SessionOpened(result string) {
	if m == nil {
		return
	}
	m.sessionsOpened.WithLabelValues(result).Inc()
}

func (m *Metrics) DashboardViewed(rows int) {
	if m == nil {
		return
	}
	m.dashboardViews.Inc()
	m.filteredRows.Observe(float64(rows))
}

func (m *Metrics) SaveFinished(result string) {
	if m == nil {
		return
	}
	m.saves.WithLabelValues(result).Inc()
}

func (m *Metrics) ExportFinished(result string) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveRequest(method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, http.StatusText(status)).Observe(elapsed.Seconds())
}
