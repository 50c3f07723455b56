package xlsx

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/xuri/excelize/v2"
)

func TestExporter_Export(t *testing.T) {
	table := domain.NewSalesTable(
		[]string{domain.ColumnDate, domain.ColumnProduct, domain.ColumnRegion, domain.ColumnChannel, domain.ColumnSales, domain.ColumnVisits, domain.ColumnTarget, "Vendedor"},
		[]*domain.SalesRecord{
			{Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), Product: "Camiseta", Region: "Sul", Channel: "Loja", Sales: 100.5, Visits: 10, Target: 120, Extra: map[string]string{"Vendedor": "Ana"}},
			{Date: time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), Product: "Calça", Region: "Norte", Channel: "Online", Sales: 200, Visits: 40, Target: 150},
		},
	)

	content, err := NewExporter("").Export(table)
	require.NoError(t, err)
	require.NotEmpty(t, content)

	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Vendas"}, f.GetSheetList())

	rows, err := f.GetRows("Vendas")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, table.Columns, rows[0])
	assert.Equal(t, "Camiseta", rows[1][1])
	assert.Equal(t, "100.5", rows[1][4])
	assert.Equal(t, "Ana", rows[1][7])
	assert.Equal(t, "Calça", rows[2][1])
}

func TestExporter_SheetName(t *testing.T) {
	content, err := NewExporter("Relatório").Export(domain.NewSalesTable(nil, nil))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Relatório"}, f.GetSheetList())

	rows, err := f.GetRows("Relatório")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.RequiredColumns, rows[0])
}

func TestExporter_NilTable(t *testing.T) {
	_, err := NewExporter("").Export(nil)
	assert.Error(t, err)
}
