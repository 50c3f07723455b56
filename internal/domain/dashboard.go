package domain

// DashboardResponse é a visão completa do painel para os filtros atuais
type DashboardResponse struct {
	Filters         SalesFilters `json:"filters"`
	KPIs            KPIs         `json:"kpis"`
	Labels          MetricLabels `json:"labels"`
	Charts          GroupedViews `json:"charts"`
	Table           *SalesTable  `json:"table"`
	ExportAvailable bool         `json:"export_available"`
	ExportNotice    string       `json:"export_notice,omitempty"`
}

// NoExportNotice é exibido quando a visão filtrada está vazia
const NoExportNotice = "Nenhum dado disponível para exportar com os filtros atuais."

// BuildDashboard aplica os filtros e calcula KPIs e gráficos sobre a tabela
func BuildDashboard(table *SalesTable, filters SalesFilters) *DashboardResponse {
	filtered := FilterRecords(table, filters)
	kpis := CalculateKPIs(filtered)

	response := &DashboardResponse{
		Filters:         filters,
		KPIs:            kpis,
		Labels:          kpis.Labels(),
		Charts:          BuildGroupedViews(filtered),
		Table:           filtered,
		ExportAvailable: !filtered.IsEmpty(),
	}

	if !response.ExportAvailable {
		response.ExportNotice = NoExportNotice
	}

	return response
}
