package domain

import (
	"sort"
)

const monthLayout = "2006-01"

// Tipos de gráfico entregues ao cliente
const (
	ChartKindBar        = "bar"
	ChartKindLine       = "line"
	ChartKindGroupedBar = "grouped_bar"
)

// KPIs são as métricas escalares calculadas sobre a visão filtrada
type KPIs struct {
	TotalSales     float64 `json:"total_sales"`
	TotalVisits    int64   `json:"total_visits"`
	AverageTicket  float64 `json:"average_ticket"`
	ConversionRate float64 `json:"conversion_rate"`
	RowCount       int     `json:"row_count"`
}

// ChartPoint é um grupo e a soma de vendas correspondente
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ComparisonPoint agrupa vendas e meta para o gráfico de barras agrupadas
type ComparisonPoint struct {
	Label  string  `json:"label"`
	Sales  float64 `json:"sales"`
	Target float64 `json:"target"`
}

// Chart descreve um gráfico pronto para renderização
type Chart struct {
	Title  string       `json:"title"`
	Kind   string       `json:"kind"`
	XLabel string       `json:"x_label"`
	YLabel string       `json:"y_label"`
	NoData bool         `json:"no_data"`
	Notice string       `json:"notice,omitempty"`
	Points []ChartPoint `json:"points"`
}

// ComparisonChart descreve o gráfico de metas vs resultados
type ComparisonChart struct {
	Title  string            `json:"title"`
	Kind   string            `json:"kind"`
	XLabel string            `json:"x_label"`
	YLabel string            `json:"y_label"`
	NoData bool              `json:"no_data"`
	Notice string            `json:"notice,omitempty"`
	Points []ComparisonPoint `json:"points"`
}

// GroupedViews reúne os quatro gráficos do painel
type GroupedViews struct {
	HasData                bool            `json:"has_data"`
	SalesByProduct         Chart           `json:"sales_by_product"`
	SalesByRegion          Chart           `json:"sales_by_region"`
	SalesByMonth           Chart           `json:"sales_by_month"`
	SalesVsTargetByProduct ComparisonChart `json:"sales_vs_target_by_product"`
}

// CalculateKPIs calcula faturamento, visitas, ticket médio e taxa de conversão
func CalculateKPIs(table *SalesTable) KPIs {
	kpis := KPIs{RowCount: table.Len()}
	if table.IsEmpty() {
		return kpis
	}

	for _, record := range table.Records {
		kpis.TotalSales += record.Sales
		kpis.TotalVisits += record.Visits
	}

	if kpis.RowCount > 0 {
		kpis.AverageTicket = kpis.TotalSales / float64(kpis.RowCount)
	}

	if kpis.TotalVisits > 0 {
		kpis.ConversionRate = kpis.TotalSales / float64(kpis.TotalVisits) * 100
	}

	return kpis
}

// BuildGroupedViews monta os gráficos agregados. Sem linhas, cada gráfico
// sinaliza "sem dados" em vez de trazer pontos vazios.
func BuildGroupedViews(table *SalesTable) GroupedViews {
	views := GroupedViews{
		SalesByProduct: Chart{
			Title:  "Vendas por Produto",
			Kind:   ChartKindBar,
			XLabel: ColumnProduct,
			YLabel: "Vendas (R$)",
		},
		SalesByRegion: Chart{
			Title:  "Vendas por Região",
			Kind:   ChartKindBar,
			XLabel: ColumnRegion,
			YLabel: "Vendas (R$)",
		},
		SalesByMonth: Chart{
			Title:  "Faturamento por Mês",
			Kind:   ChartKindLine,
			XLabel: "Mês",
			YLabel: "Faturamento (R$)",
		},
		SalesVsTargetByProduct: ComparisonChart{
			Title:  "Metas vs Resultados",
			Kind:   ChartKindGroupedBar,
			XLabel: ColumnProduct,
			YLabel: "Valor (R$)",
		},
	}

	if table.IsEmpty() {
		markNoData(&views.SalesByProduct)
		markNoData(&views.SalesByRegion)
		markNoData(&views.SalesByMonth)
		views.SalesVsTargetByProduct.NoData = true
		views.SalesVsTargetByProduct.Notice = noDataNotice(views.SalesVsTargetByProduct.Title)
		views.SalesVsTargetByProduct.Points = make([]ComparisonPoint, 0)
		return views
	}

	views.HasData = true
	views.SalesByProduct.Points = SumSalesBy(table, func(r *SalesRecord) string { return r.Product })
	views.SalesByRegion.Points = SumSalesBy(table, func(r *SalesRecord) string { return r.Region })
	views.SalesByMonth.Points = SumSalesBy(table, MonthLabel)
	views.SalesVsTargetByProduct.Points = SumSalesAndTargetByProduct(table)

	return views
}

// MonthLabel formata a data do registro como "YYYY-MM", que ordena cronologicamente
func MonthLabel(r *SalesRecord) string {
	return r.Date.Format(monthLayout)
}

// SumSalesBy soma as vendas agrupando pela chave informada, ordenando pelas chaves
func SumSalesBy(table *SalesTable, key func(*SalesRecord) string) []ChartPoint {
	sums := make(map[string]float64)
	for _, record := range table.Records {
		sums[key(record)] += record.Sales
	}

	points := make([]ChartPoint, 0, len(sums))
	for label, value := range sums {
		points = append(points, ChartPoint{Label: label, Value: value})
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Label < points[j].Label
	})

	return points
}

// SumSalesAndTargetByProduct soma vendas e meta por produto
func SumSalesAndTargetByProduct(table *SalesTable) []ComparisonPoint {
	byProduct := make(map[string]*ComparisonPoint)
	for _, record := range table.Records {
		point, ok := byProduct[record.Product]
		if !ok {
			point = &ComparisonPoint{Label: record.Product}
			byProduct[record.Product] = point
		}
		point.Sales += record.Sales
		point.Target += record.Target
	}

	points := make([]ComparisonPoint, 0, len(byProduct))
	for _, point := range byProduct {
		points = append(points, *point)
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Label < points[j].Label
	})

	return points
}

func markNoData(chart *Chart) {
	chart.NoData = true
	chart.Notice = noDataNotice(chart.Title)
	chart.Points = make([]ChartPoint, 0)
}

func noDataNotice(title string) string {
	return "Sem dados para o gráfico de " + title + "."
}
