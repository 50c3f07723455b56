// Package xlsx serializa a visão filtrada de vendas em uma planilha Excel
package xlsx

import (
	"bytes"
	"fmt"
	"time"

	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/xuri/excelize/v2"
)

// ContentType é o MIME de planilhas .xlsx
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const defaultSheetName = "Vendas"

// Exporter gera planilhas com uma única aba: cabeçalho e linhas de dados
type Exporter struct {
	sheetName string
}

// NewExporter cria um Exporter. Nome de aba vazio usa "Vendas".
func NewExporter(sheetName string) *Exporter {
	if sheetName == "" {
		sheetName = defaultSheetName
	}
	return &Exporter{sheetName: sheetName}
}

// Export serializa a tabela na ordem das suas colunas e retorna os bytes do arquivo
func (e *Exporter) Export(table *domain.SalesTable) ([]byte, error) {
	if table == nil {
		return nil, fmt.Errorf("tabela nula")
	}

	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	if defaultSheet != e.sheetName {
		if err := f.SetSheetName(defaultSheet, e.sheetName); err != nil {
			return nil, fmt.Errorf("erro ao renomear aba: %w", err)
		}
	}

	sw, err := f.NewStreamWriter(e.sheetName)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar stream da planilha: %w", err)
	}

	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	if err != nil {
		return nil, fmt.Errorf("erro ao criar estilo de data: %w", err)
	}

	header := make([]interface{}, 0, len(table.Columns))
	for _, column := range table.Columns {
		header = append(header, column)
	}
	if err := sw.SetRow("A1", header); err != nil {
		return nil, fmt.Errorf("erro ao escrever cabeçalho: %w", err)
	}

	for i, record := range table.Records {
		row := make([]interface{}, 0, len(table.Columns))
		for _, column := range table.Columns {
			value := record.Value(column)
			if t, ok := value.(time.Time); ok {
				row = append(row, excelize.Cell{StyleID: dateStyle, Value: t})
				continue
			}
			row = append(row, value)
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("erro ao calcular célula da linha %d: %w", i+1, err)
		}
		if err := sw.SetRow(cell, row); err != nil {
			return nil, fmt.Errorf("erro ao escrever linha %d: %w", i+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return nil, fmt.Errorf("erro ao finalizar planilha: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("erro ao serializar planilha: %w", err)
	}

	return buf.Bytes(), nil
}
