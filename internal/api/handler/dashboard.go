package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/dashboarding"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
	"github.com/vfg2006/sales-dashboard-api/pkg/utils"
)

// Parâmetros de filtro aceitos na query string
const (
	queryProduct = "produto"
	queryRegion  = "regiao"
	queryChannel = "canal"
	queryDate    = "data"
)

// TableRequest é o corpo usado para substituir a tabela em edição
type TableRequest struct {
	Columns []string              `json:"columns"`
	Records []*domain.SalesRecord `json:"records" validate:"required,dive,required"`
}

// OpenSession carrega a tabela de vendas e abre uma sessão do painel
func OpenSession(service dashboarding.Dashboarder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := service.OpenSession(r.Context())
		if err != nil {
			handleDashboardError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, info)
	}
}

// CloseSession encerra a sessão descartando edições não salvas
func CloseSession(service dashboarding.Dashboarder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := sessionID(r)

		if err := service.CloseSession(r.Context(), id); err != nil {
			handleDashboardError(w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// GetFilters retorna as opções de cada filtro
func GetFilters(service dashboarding.Dashboarder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		options, err := service.Filters(r.Context(), sessionID(r))
		if err != nil {
			handleDashboardError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, options)
	}
}

// GetDashboard calcula KPIs, gráficos e tabela detalhada para os filtros da query string
func GetDashboard(service dashboarding.Dashboarder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, err := parseFilterQuery(r.URL.Query())
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Data inválida. Use o formato YYYY-MM-DD", nil)
			return
		}

		response, err := service.Dashboard(r.Context(), sessionID(r), query)
		if err != nil {
			handleDashboardError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, response)
	}
}

// GetTable retorna a tabela completa em edição
func GetTable(service dashboarding.Dashboarder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table, err := service.Table(r.Context(), sessionID(r))
		if err != nil {
			handleDashboardError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, table)
	}
}

// ReplaceTable substitui a tabela em edição pelo corpo da requisição
func ReplaceTable(service dashboarding.Dashboarder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TableRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		if err := validate.Struct(req); err != nil {
			writeValidationError(w, err)
			return
		}

		table, err := service.ReplaceTable(r.Context(), sessionID(r), &domain.SalesTable{
			Columns: req.Columns,
			Records: req.Records,
		})
		if err != nil {
			handleDashboardError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, table)
	}
}

// SaveTable grava a tabela em edição na origem de dados
func SaveTable(service dashboarding.Dashboarder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := service.Save(r.Context(), sessionID(r))
		if err != nil {
			handleDashboardError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

// ExportTable devolve a planilha da visão filtrada como anexo
func ExportTable(service dashboarding.Dashboarder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, err := parseFilterQuery(r.URL.Query())
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Data inválida. Use o formato YYYY-MM-DD", nil)
			return
		}

		file, err := service.Export(r.Context(), sessionID(r), query)
		if err != nil {
			handleDashboardError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", file.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
		w.Header().Set("Content-Length", strconv.Itoa(len(file.Content)))
		w.WriteHeader(http.StatusOK)

		if _, err := w.Write(file.Content); err != nil {
			log.ForContext(r.Context()).WithError(err).Error("Erro ao enviar planilha")
		}
	}
}

func sessionID(r *http.Request) string {
	return httprouter.ParamsFromContext(r.Context()).ByName("id")
}

// parseFilterQuery lê os filtros da query string.
// Parâmetro ausente mantém todos os valores; parâmetro presente e vazio seleciona nada.
func parseFilterQuery(values url.Values) (dashboarding.FilterQuery, error) {
	dates, err := utils.ParseDates(values[queryDate])
	if err != nil {
		return dashboarding.FilterQuery{}, err
	}

	return dashboarding.FilterQuery{
		Products: selection(values, queryProduct),
		Regions:  selection(values, queryRegion),
		Channels: selection(values, queryChannel),
		Dates:    dates,
	}, nil
}

func selection(values url.Values, key string) []string {
	raw, ok := values[key]
	if !ok {
		return nil
	}

	selected := make([]string, 0, len(raw))
	for _, value := range raw {
		if value != "" {
			selected = append(selected, value)
		}
	}
	return selected
}

func handleDashboardError(w http.ResponseWriter, r *http.Request, err error) {
	logger := log.ForContext(r.Context())

	var dashErr *dashboarding.DashboardError
	if !errors.As(err, &dashErr) {
		logger.WithError(err).Error("Erro inesperado no painel")
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno", nil)
		return
	}

	details := map[string]any{}
	if dashErr.SessionID != "" {
		details["session_id"] = dashErr.SessionID
	}

	var loadErr *domain.LoadError
	if errors.As(err, &loadErr) {
		details["kind"] = loadErr.Kind
		details["source"] = loadErr.Path
	}

	var saveErr *domain.SaveError
	if errors.As(err, &saveErr) {
		details["kind"] = saveErr.Kind
		details["source"] = saveErr.Path
	}

	if len(details) == 0 {
		apiErrors.WriteError(w, dashErr.Code, errorMessage(dashErr), nil)
		return
	}

	apiErrors.WriteError(w, dashErr.Code, errorMessage(dashErr), details)
}

func errorMessage(err *dashboarding.DashboardError) string {
	switch err.Code {
	case apiErrors.ErrNothingToExport:
		return domain.NoExportNotice
	case apiErrors.ErrSessionNotFound:
		return "Sessão não encontrada ou expirada"
	case apiErrors.ErrSaveFailed:
		return "Erro ao salvar: as alterações continuam disponíveis para uma nova tentativa"
	}
	return err.Error()
}
