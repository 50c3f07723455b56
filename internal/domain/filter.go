package domain

import (
	"errors"
	"time"
)

var (
	ErrInvalidDateRange = errors.New("intervalo de datas inválido")
)

// SalesFilters são os filtros selecionados pelo usuário no painel
type SalesFilters struct {
	Products  []string  `json:"products"`
	Regions   []string  `json:"regions"`
	Channels  []string  `json:"channels"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// FilterOptions são os valores disponíveis para seleção, usados também como padrão
type FilterOptions struct {
	Products  []string  `json:"products"`
	Regions   []string  `json:"regions"`
	Channels  []string  `json:"channels"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// DefaultFilters retorna todos os valores observados na tabela e o período completo.
// Os valores seguem a ordem em que aparecem pela primeira vez no arquivo.
func DefaultFilters(table *SalesTable) *FilterOptions {
	options := &FilterOptions{
		Products: make([]string, 0),
		Regions:  make([]string, 0),
		Channels: make([]string, 0),
	}

	if table.IsEmpty() {
		return options
	}

	seenProducts := make(map[string]struct{})
	seenRegions := make(map[string]struct{})
	seenChannels := make(map[string]struct{})

	for i, record := range table.Records {
		options.Products = appendUnique(options.Products, seenProducts, record.Product)
		options.Regions = appendUnique(options.Regions, seenRegions, record.Region)
		options.Channels = appendUnique(options.Channels, seenChannels, record.Channel)

		day := record.DateOnly()
		if i == 0 || day.Before(options.StartDate) {
			options.StartDate = day
		}
		if i == 0 || day.After(options.EndDate) {
			options.EndDate = day
		}
	}

	return options
}

// ToFilters converte as opções padrão em filtros que selecionam tudo
func (o *FilterOptions) ToFilters() SalesFilters {
	return SalesFilters{
		Products:  append([]string(nil), o.Products...),
		Regions:   append([]string(nil), o.Regions...),
		Channels:  append([]string(nil), o.Channels...),
		StartDate: o.StartDate,
		EndDate:   o.EndDate,
	}
}

// NormalizeDateRange converte a seleção de datas do usuário em um intervalo fechado.
// Duas datas formam (início, fim); uma data vira uma janela de um único dia;
// nenhuma data mantém o período padrão. Qualquer outro formato é rejeitado.
func NormalizeDateRange(dates []time.Time, defaults *FilterOptions) (time.Time, time.Time, error) {
	switch len(dates) {
	case 0:
		if defaults == nil {
			return time.Time{}, time.Time{}, ErrInvalidDateRange
		}
		return defaults.StartDate, defaults.EndDate, nil
	case 1:
		day := TruncateToDay(dates[0])
		return day, day, nil
	case 2:
		start, end := TruncateToDay(dates[0]), TruncateToDay(dates[1])
		if start.After(end) {
			return time.Time{}, time.Time{}, ErrInvalidDateRange
		}
		return start, end, nil
	default:
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
}

// FilterRecords retorna uma nova tabela apenas com as linhas que satisfazem todos os filtros.
// A tabela de entrada nunca é alterada.
func FilterRecords(table *SalesTable, filters SalesFilters) *SalesTable {
	if table == nil {
		return NewSalesTable(nil, nil)
	}

	products := toSet(filters.Products)
	regions := toSet(filters.Regions)
	channels := toSet(filters.Channels)
	start := TruncateToDay(filters.StartDate)
	end := TruncateToDay(filters.EndDate)

	filtered := make([]*SalesRecord, 0, len(table.Records))
	for _, record := range table.Records {
		if _, ok := products[record.Product]; !ok {
			continue
		}
		if _, ok := regions[record.Region]; !ok {
			continue
		}
		if _, ok := channels[record.Channel]; !ok {
			continue
		}

		day := record.DateOnly()
		if day.Before(start) || day.After(end) {
			continue
		}

		filtered = append(filtered, record)
	}

	return &SalesTable{
		Columns: append([]string(nil), table.Columns...),
		Records: filtered,
	}
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func appendUnique(values []string, seen map[string]struct{}, value string) []string {
	if _, ok := seen[value]; ok {
		return values
	}
	seen[value] = struct{}{}
	return append(values, value)
}
