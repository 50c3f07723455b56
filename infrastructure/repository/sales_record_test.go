package repository

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

func records(n int) []*domain.SalesRecord {
	all := make([]*domain.SalesRecord, 0, n)
	for i := 0; i < n; i++ {
		all = append(all, &domain.SalesRecord{
			Date:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Product: "Camiseta",
			Region:  "Sul",
			Channel: "Loja",
			Sales:   float64(i),
		})
	}
	return all
}

func TestBuildInserts(t *testing.T) {
	tests := []struct {
		name      string
		records   []*domain.SalesRecord
		wantBatch int
		validate  func(t *testing.T, statements []insertStatement)
	}{
		{
			name:      "Sem linhas - não deve gerar inserts",
			records:   nil,
			wantBatch: 0,
		},
		{
			name:      "Poucas linhas - deve gerar um único insert",
			records:   records(3),
			wantBatch: 1,
			validate: func(t *testing.T, statements []insertStatement) {
				assert.True(t, strings.HasPrefix(statements[0].query, "INSERT INTO sales_records"))
				assert.Len(t, statements[0].args, 3*9)
				assert.Equal(t, 0, statements[0].args[0])
				assert.Equal(t, 2, statements[0].args[18])
			},
		},
		{
			name:      "Mais linhas que o lote - deve dividir mantendo a posição",
			records:   records(insertBatchSize + 1),
			wantBatch: 2,
			validate: func(t *testing.T, statements []insertStatement) {
				assert.Len(t, statements[1].args, 9)
				assert.Equal(t, insertBatchSize, statements[1].args[0])
			},
		},
		{
			name:      "Linhas nulas - devem ser ignoradas",
			records:   append([]*domain.SalesRecord{nil}, records(2)...),
			wantBatch: 1,
			validate: func(t *testing.T, statements []insertStatement) {
				assert.Len(t, statements[0].args, 2*9)
			},
		},
		{
			name: "Colunas extras - devem ser serializadas em JSON",
			records: []*domain.SalesRecord{
				{Product: "A", Extra: map[string]string{"Vendedor": "Ana"}},
			},
			wantBatch: 1,
			validate: func(t *testing.T, statements []insertStatement) {
				assert.JSONEq(t, `{"Vendedor":"Ana"}`, statements[0].args[8].(string))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			statements, err := buildInserts(tt.records)

			require.NoError(t, err)
			assert.Len(t, statements, tt.wantBatch)
			if tt.validate != nil {
				tt.validate(t, statements)
			}
		})
	}
}

func TestIsFinite(t *testing.T) {
	assert.True(t, isFinite(0))
	assert.True(t, isFinite(-12.5))
	assert.False(t, isFinite(math.NaN()))
	assert.False(t, isFinite(math.Inf(1)))
	assert.False(t, isFinite(math.Inf(-1)))
}
