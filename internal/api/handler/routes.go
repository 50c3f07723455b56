package handler

import (
	"net/http"

	"github.com/justinas/alice"
	"github.com/vfg2006/sales-dashboard-api/internal/api/handler/router"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/dashboarding"
	"github.com/vfg2006/sales-dashboard-api/pkg/metrics"
	"github.com/vfg2006/sales-dashboard-api/pkg/middleware"
)

func Healthcheck(sessions SessionCounter) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(sessions),
		},
	}
}

func Metrics(m *metrics.Metrics) []router.Route {
	return []router.Route{
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: MetricsHandler(m),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
	}
}

// Dashboard registra as rotas de sessão. Edição e gravação exigem o papel de editor.
func Dashboard(service dashboarding.Dashboarder, auth authenticating.Authenticator) []router.Route {
	editorOnly := []alice.Constructor{middleware.EditorOnly(auth)}

	return []router.Route{
		{
			Path:    "/v1/sessions",
			Method:  http.MethodPost,
			Handler: OpenSession(service),
		},
		{
			Path:    "/v1/sessions/:id",
			Method:  http.MethodDelete,
			Handler: CloseSession(service),
		},
		{
			Path:    "/v1/sessions/:id/filters",
			Method:  http.MethodGet,
			Handler: GetFilters(service),
		},
		{
			Path:    "/v1/sessions/:id/dashboard",
			Method:  http.MethodGet,
			Handler: GetDashboard(service),
		},
		{
			Path:    "/v1/sessions/:id/table",
			Method:  http.MethodGet,
			Handler: GetTable(service),
		},
		{
			Path:        "/v1/sessions/:id/table",
			Method:      http.MethodPut,
			Handler:     ReplaceTable(service),
			Middlewares: editorOnly,
		},
		{
			Path:        "/v1/sessions/:id/save",
			Method:      http.MethodPost,
			Handler:     SaveTable(service),
			Middlewares: editorOnly,
		},
		{
			Path:    "/v1/sessions/:id/export",
			Method:  http.MethodGet,
			Handler: ExportTable(service),
		},
	}
}

// CronJobs expõe a execução manual e o status dos jobs, restritos ao editor
func CronJobs(services CronJobServices, auth authenticating.Authenticator) []router.Route {
	editorOnly := []alice.Constructor{middleware.EditorOnly(auth)}

	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: editorOnly,
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: editorOnly,
		},
	}
}
