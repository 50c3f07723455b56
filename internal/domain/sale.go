package domain

import "time"

// Colunas canônicas do arquivo de vendas
const (
	ColumnDate    = "Data"
	ColumnProduct = "Produto"
	ColumnRegion  = "Região"
	ColumnChannel = "Canal"
	ColumnSales   = "Vendas"
	ColumnVisits  = "Visitas"
	ColumnTarget  = "Meta"
)

// RequiredColumns lista as colunas que todo arquivo de vendas precisa ter, na ordem padrão
var RequiredColumns = []string{
	ColumnDate,
	ColumnProduct,
	ColumnRegion,
	ColumnChannel,
	ColumnSales,
	ColumnVisits,
	ColumnTarget,
}

// SalesRecord representa uma linha da tabela de vendas
type SalesRecord struct {
	Date    time.Time         `json:"date"`
	Product string            `json:"product"`
	Region  string            `json:"region"`
	Channel string            `json:"channel"`
	Sales   float64           `json:"sales"`
	Visits  int64             `json:"visits"`
	Target  float64           `json:"target"`
	Extra   map[string]string `json:"extra,omitempty"` // Colunas adicionais preservadas do arquivo
}

// SalesTable é a tabela carregada em memória, com as colunas na ordem do arquivo
type SalesTable struct {
	Columns []string       `json:"columns"`
	Records []*SalesRecord `json:"records"`
}

// NewSalesTable cria uma tabela com as colunas padrão quando nenhuma for informada
func NewSalesTable(columns []string, records []*SalesRecord) *SalesTable {
	if len(columns) == 0 {
		columns = append([]string(nil), RequiredColumns...)
	}
	if records == nil {
		records = make([]*SalesRecord, 0)
	}

	return &SalesTable{
		Columns: columns,
		Records: records,
	}
}

// Len retorna a quantidade de linhas da tabela
func (t *SalesTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// IsEmpty indica se a tabela não possui linhas
func (t *SalesTable) IsEmpty() bool {
	return t.Len() == 0
}

// Clone cria uma cópia profunda da tabela
func (t *SalesTable) Clone() *SalesTable {
	if t == nil {
		return nil
	}

	records := make([]*SalesRecord, 0, len(t.Records))
	for _, record := range t.Records {
		records = append(records, record.Clone())
	}

	return &SalesTable{
		Columns: append([]string(nil), t.Columns...),
		Records: records,
	}
}

// Clone cria uma cópia do registro, incluindo as colunas extras
func (r *SalesRecord) Clone() *SalesRecord {
	if r == nil {
		return nil
	}

	clone := *r
	if r.Extra != nil {
		clone.Extra = make(map[string]string, len(r.Extra))
		for k, v := range r.Extra {
			clone.Extra[k] = v
		}
	}

	return &clone
}

// DateOnly trunca a data do registro para o dia do calendário
func (r *SalesRecord) DateOnly() time.Time {
	return TruncateToDay(r.Date)
}

// TruncateToDay remove o horário de uma data
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Value retorna o valor do registro para a coluna informada.
// Colunas desconhecidas são buscadas entre as colunas extras.
func (r *SalesRecord) Value(column string) any {
	switch column {
	case ColumnDate:
		return r.Date
	case ColumnProduct:
		return r.Product
	case ColumnRegion:
		return r.Region
	case ColumnChannel:
		return r.Channel
	case ColumnSales:
		return r.Sales
	case ColumnVisits:
		return r.Visits
	case ColumnTarget:
		return r.Target
	default:
		return r.Extra[column]
	}
}
