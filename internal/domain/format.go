package domain

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// MetricLabels são os valores dos KPIs já formatados para exibição
type MetricLabels struct {
	TotalSales     string `json:"total_sales"`
	AverageTicket  string `json:"average_ticket"`
	TotalVisits    string `json:"total_visits"`
	ConversionRate string `json:"conversion_rate"`
}

// FormatCurrency formata um valor em reais com separador de milhar, ex: "R$ 1,234.56"
func FormatCurrency(value float64) string {
	return printer.Sprintf("R$ %.2f", value)
}

// FormatCount formata uma contagem com separador de milhar, ex: "1,234"
func FormatCount(value int64) string {
	return printer.Sprintf("%d", value)
}

// FormatPercent formata um percentual com duas casas, ex: "12.34%"
func FormatPercent(value float64) string {
	return printer.Sprintf("%.2f%%", value)
}

// Labels gera os rótulos dos KPIs
func (k KPIs) Labels() MetricLabels {
	return MetricLabels{
		TotalSales:     FormatCurrency(k.TotalSales),
		AverageTicket:  FormatCurrency(k.AverageTicket),
		TotalVisits:    FormatCount(k.TotalVisits),
		ConversionRate: FormatPercent(k.ConversionRate),
	}
}
