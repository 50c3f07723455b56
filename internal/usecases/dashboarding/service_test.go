package dashboarding_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/dashboarding"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/dashboarding/mocks"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func loadedTable() *domain.SalesTable {
	return domain.NewSalesTable(nil, []*domain.SalesRecord{
		{Date: day(5), Product: "Camiseta", Region: "Sul", Channel: "Loja", Sales: 100, Visits: 10, Target: 120},
		{Date: day(10), Product: "Calça", Region: "Norte", Channel: "Online", Sales: 200, Visits: 40, Target: 150},
		{Date: day(20), Product: "Boné", Region: "Sul", Channel: "Online", Sales: 30, Visits: 5, Target: 20},
	})
}

type fixture struct {
	store    *mocks.MockTableStore
	exporter *mocks.MockExporter
	service  *dashboarding.Service
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)

	f := &fixture{
		store:    mocks.NewMockTableStore(ctrl),
		exporter: mocks.NewMockExporter(ctrl),
		now:      time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.service = dashboarding.NewService(
		f.store,
		f.exporter,
		dashboarding.NewMemorySessionStore(),
		"vendas_filtradas.xlsx",
		"application/test",
		dashboarding.WithClock(func() time.Time { return f.now }),
	)

	return f
}

func (f *fixture) open(t *testing.T) string {
	t.Helper()
	f.store.EXPECT().Load().Return(loadedTable(), nil)

	info, err := f.service.OpenSession(context.Background())
	require.NoError(t, err)
	return info.ID
}

func errorCode(t *testing.T, err error) string {
	t.Helper()
	var dashErr *dashboarding.DashboardError
	require.True(t, errors.As(err, &dashErr), "erro deveria ser DashboardError: %v", err)
	return dashErr.Code
}

func TestService_OpenSession(t *testing.T) {
	tests := []struct {
		name     string
		loadErr  error
		wantCode string
	}{
		{
			name:     "Arquivo inexistente - deve retornar DATA_001",
			loadErr:  domain.NewLoadError(domain.LoadNotFound, "equiv.csv", domain.ErrDatasetNotFound),
			wantCode: apiErrors.ErrDatasetNotFound,
		},
		{
			name:     "Arquivo vazio - deve retornar DATA_002",
			loadErr:  domain.NewLoadError(domain.LoadEmpty, "equiv.csv", domain.ErrDatasetEmpty),
			wantCode: apiErrors.ErrDatasetEmpty,
		},
		{
			name:     "Arquivo mal formado - deve retornar DATA_003",
			loadErr:  domain.NewLoadError(domain.LoadParseFailure, "equiv.csv", domain.ErrDatasetParse),
			wantCode: apiErrors.ErrDatasetParse,
		},
		{
			name:     "Falha desconhecida - deve retornar DATA_004",
			loadErr:  errors.New("permissão negada"),
			wantCode: apiErrors.ErrDatasetLoad,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.store.EXPECT().Load().Return(nil, tt.loadErr)

			info, err := f.service.OpenSession(context.Background())

			assert.Nil(t, info)
			assert.Equal(t, tt.wantCode, errorCode(t, err))
			assert.Equal(t, 0, f.service.ActiveSessions(), "nenhuma sessão deve ser criada")
		})
	}

	t.Run("Carga bem sucedida - deve criar sessão com filtros padrão", func(t *testing.T) {
		f := newFixture(t)
		f.store.EXPECT().Load().Return(loadedTable(), nil)

		info, err := f.service.OpenSession(context.Background())

		require.NoError(t, err)
		assert.NotEmpty(t, info.ID)
		assert.Equal(t, 3, info.Rows)
		assert.Equal(t, domain.RequiredColumns, info.Columns)
		assert.Equal(t, []string{"Camiseta", "Calça", "Boné"}, info.Defaults.Products)
		assert.Equal(t, day(5), info.Defaults.StartDate)
		assert.Equal(t, day(20), info.Defaults.EndDate)
		assert.Equal(t, 1, f.service.ActiveSessions())
	})
}

func TestService_Dashboard(t *testing.T) {
	tests := []struct {
		name     string
		query    dashboarding.FilterQuery
		wantCode string
		validate func(t *testing.T, response *domain.DashboardResponse)
	}{
		{
			name:  "Sem filtros - deve considerar toda a tabela",
			query: dashboarding.FilterQuery{},
			validate: func(t *testing.T, response *domain.DashboardResponse) {
				assert.Equal(t, 3, response.KPIs.RowCount)
				assert.Equal(t, 330.0, response.KPIs.TotalSales)
				assert.True(t, response.ExportAvailable)
			},
		},
		{
			name:  "Filtro por canal - deve manter só o canal escolhido",
			query: dashboarding.FilterQuery{Channels: []string{"Online"}},
			validate: func(t *testing.T, response *domain.DashboardResponse) {
				assert.Equal(t, 2, response.KPIs.RowCount)
				assert.Equal(t, []string{"Online"}, response.Filters.Channels)
				assert.Equal(t, []string{"Camiseta", "Calça", "Boné"}, response.Filters.Products)
			},
		},
		{
			name:  "Seleção vazia de produto - deve retornar visão vazia",
			query: dashboarding.FilterQuery{Products: []string{}},
			validate: func(t *testing.T, response *domain.DashboardResponse) {
				assert.Equal(t, 0, response.KPIs.RowCount)
				assert.False(t, response.ExportAvailable)
				assert.Equal(t, domain.NoExportNotice, response.ExportNotice)
				assert.True(t, response.Charts.SalesByProduct.NoData)
			},
		},
		{
			name:  "Uma data - deve filtrar um único dia",
			query: dashboarding.FilterQuery{Dates: []time.Time{day(10)}},
			validate: func(t *testing.T, response *domain.DashboardResponse) {
				assert.Equal(t, 1, response.KPIs.RowCount)
				assert.Equal(t, "Calça", response.Table.Records[0].Product)
			},
		},
		{
			name:     "Intervalo invertido - deve retornar VAL_001",
			query:    dashboarding.FilterQuery{Dates: []time.Time{day(20), day(5)}},
			wantCode: apiErrors.ErrInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			id := f.open(t)

			response, err := f.service.Dashboard(context.Background(), id, tt.query)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(t, err))
				return
			}

			require.NoError(t, err)
			tt.validate(t, response)
		})
	}

	t.Run("Sessão inexistente - deve retornar SES_001", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.Dashboard(context.Background(), "nao-existe", dashboarding.FilterQuery{})

		assert.Equal(t, apiErrors.ErrSessionNotFound, errorCode(t, err))
	})
}

func TestService_EditAndSave(t *testing.T) {
	newRow := &domain.SalesRecord{Date: day(25), Product: "Meia", Region: "Sul", Channel: "Loja", Sales: 15, Visits: 3, Target: 10}

	t.Run("Gravação bem sucedida - painel deve refletir a tabela salva", func(t *testing.T) {
		f := newFixture(t)
		id := f.open(t)
		ctx := context.Background()

		table, err := f.service.Table(ctx, id)
		require.NoError(t, err)
		table.Records = append(table.Records, newRow)

		_, err = f.service.ReplaceTable(ctx, id, table)
		require.NoError(t, err)

		before, err := f.service.Dashboard(ctx, id, dashboarding.FilterQuery{})
		require.NoError(t, err)
		assert.Equal(t, 3, before.KPIs.RowCount, "edições não salvas não entram no painel")

		f.store.EXPECT().Save(gomock.Any()).DoAndReturn(func(saved *domain.SalesTable) error {
			assert.Equal(t, 4, saved.Len())
			assert.Equal(t, "Meia", saved.Records[3].Product)
			return nil
		})

		result, err := f.service.Save(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 4, result.Rows)
		assert.Equal(t, f.now, result.SavedAt)

		after, err := f.service.Dashboard(ctx, id, dashboarding.FilterQuery{})
		require.NoError(t, err)
		assert.Equal(t, 4, after.KPIs.RowCount)
		assert.Contains(t, after.Filters.Products, "Meia")
	})

	t.Run("Falha na gravação - edição deve permanecer e painel não muda", func(t *testing.T) {
		f := newFixture(t)
		id := f.open(t)
		ctx := context.Background()

		table, err := f.service.Table(ctx, id)
		require.NoError(t, err)
		table.Records = table.Records[:1]

		_, err = f.service.ReplaceTable(ctx, id, table)
		require.NoError(t, err)

		f.store.EXPECT().Save(gomock.Any()).
			Return(domain.NewSaveError(domain.SaveIOFailure, "equiv.csv", errors.New("disco cheio")))

		_, err = f.service.Save(ctx, id)
		assert.Equal(t, apiErrors.ErrSaveFailed, errorCode(t, err))

		edited, err := f.service.Table(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 1, edited.Len())

		response, err := f.service.Dashboard(ctx, id, dashboarding.FilterQuery{})
		require.NoError(t, err)
		assert.Equal(t, 3, response.KPIs.RowCount)

		f.store.EXPECT().Save(gomock.Any()).Return(nil)
		result, err := f.service.Save(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Rows)
	})

	t.Run("Tabela com linha nula - deve retornar VAL_003", func(t *testing.T) {
		f := newFixture(t)
		id := f.open(t)

		_, err := f.service.ReplaceTable(context.Background(), id,
			domain.NewSalesTable(nil, []*domain.SalesRecord{newRow, nil}))

		assert.Equal(t, apiErrors.ErrInvalidFormat, errorCode(t, err))
	})

	t.Run("Tabela ausente - deve retornar VAL_002", func(t *testing.T) {
		f := newFixture(t)
		id := f.open(t)

		_, err := f.service.ReplaceTable(context.Background(), id, nil)

		assert.Equal(t, apiErrors.ErrMissingRequiredData, errorCode(t, err))
	})

	t.Run("Tabela sem colunas - deve manter as colunas da sessão", func(t *testing.T) {
		f := newFixture(t)
		id := f.open(t)

		replaced, err := f.service.ReplaceTable(context.Background(), id,
			&domain.SalesTable{Records: []*domain.SalesRecord{newRow}})

		require.NoError(t, err)
		assert.Equal(t, domain.RequiredColumns, replaced.Columns)
	})

	t.Run("Cópia retornada - alterações não afetam a sessão", func(t *testing.T) {
		f := newFixture(t)
		id := f.open(t)
		ctx := context.Background()

		table, err := f.service.Table(ctx, id)
		require.NoError(t, err)
		table.Records[0].Product = "Alterado"

		again, err := f.service.Table(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Camiseta", again.Records[0].Product)
	})
}

func TestService_Export(t *testing.T) {
	t.Run("Visão com dados - deve gerar a planilha filtrada", func(t *testing.T) {
		f := newFixture(t)
		id := f.open(t)

		f.exporter.EXPECT().Export(gomock.Any()).DoAndReturn(func(table *domain.SalesTable) ([]byte, error) {
			assert.Equal(t, 1, table.Len())
			assert.Equal(t, "Calça", table.Records[0].Product)
			return []byte("xlsx"), nil
		})

		file, err := f.service.Export(context.Background(), id, dashboarding.FilterQuery{Products: []string{"Calça"}})

		require.NoError(t, err)
		assert.Equal(t, "vendas_filtradas.xlsx", file.FileName)
		assert.Equal(t, "application/test", file.ContentType)
		assert.Equal(t, []byte("xlsx"), file.Content)
		assert.Equal(t, 1, file.Rows)
	})

	t.Run("Sem filtros na consulta - deve usar os filtros atuais da sessão", func(t *testing.T) {
		f := newFixture(t)
		id := f.open(t)
		ctx := context.Background()

		_, err := f.service.Dashboard(ctx, id, dashboarding.FilterQuery{Regions: []string{"Sul"}})
		require.NoError(t, err)

		f.exporter.EXPECT().Export(gomock.Any()).DoAndReturn(func(table *domain.SalesTable) ([]byte, error) {
			assert.Equal(t, 2, table.Len())
			return []byte("xlsx"), nil
		})

		file, err := f.service.Export(ctx, id, dashboarding.FilterQuery{})
		require.NoError(t, err)
		assert.Equal(t, 2, file.Rows)
	})

	t.Run("Visão vazia - não deve gerar arquivo", func(t *testing.T) {
		f := newFixture(t)
		id := f.open(t)

		file, err := f.service.Export(context.Background(), id, dashboarding.FilterQuery{Regions: []string{}})

		assert.Nil(t, file)
		assert.Equal(t, apiErrors.ErrNothingToExport, errorCode(t, err))
		assert.ErrorIs(t, err, dashboarding.ErrNothingToExport)
	})

	t.Run("Falha do exportador - deve retornar EXP_001", func(t *testing.T) {
		f := newFixture(t)
		id := f.open(t)

		f.exporter.EXPECT().Export(gomock.Any()).Return(nil, errors.New("falha"))

		_, err := f.service.Export(context.Background(), id, dashboarding.FilterQuery{})

		assert.Equal(t, apiErrors.ErrExportFailed, errorCode(t, err))
	})
}

func TestService_Sessions(t *testing.T) {
	t.Run("Encerrar sessão - deve descartar o estado", func(t *testing.T) {
		f := newFixture(t)
		id := f.open(t)
		ctx := context.Background()

		require.NoError(t, f.service.CloseSession(ctx, id))
		assert.Equal(t, 0, f.service.ActiveSessions())

		err := f.service.CloseSession(ctx, id)
		assert.Equal(t, apiErrors.ErrSessionNotFound, errorCode(t, err))
	})

	t.Run("Sessões independentes - edição de uma não afeta a outra", func(t *testing.T) {
		f := newFixture(t)
		first := f.open(t)
		second := f.open(t)
		ctx := context.Background()

		_, err := f.service.ReplaceTable(ctx, first, domain.NewSalesTable(nil, nil))
		require.NoError(t, err)

		other, err := f.service.Table(ctx, second)
		require.NoError(t, err)
		assert.Equal(t, 3, other.Len())
	})

	t.Run("Limpeza - deve encerrar apenas sessões inativas", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()

		idle := f.open(t)
		f.now = f.now.Add(2 * time.Hour)
		active := f.open(t)

		removed := f.service.CleanupIdleSessions(ctx, time.Hour)

		assert.Equal(t, []string{idle}, removed)
		assert.Equal(t, 1, f.service.ActiveSessions())

		_, err := f.service.Filters(ctx, active)
		assert.NoError(t, err)
	})
}

func TestFilterQuery_Resolve(t *testing.T) {
	defaults := domain.DefaultFilters(loadedTable())

	t.Run("Consulta vazia - deve selecionar tudo", func(t *testing.T) {
		q := dashboarding.FilterQuery{}
		assert.True(t, q.IsZero())

		filters, err := q.Resolve(defaults)

		require.NoError(t, err)
		assert.Equal(t, defaults.Products, filters.Products)
		assert.Equal(t, defaults.StartDate, filters.StartDate)
	})

	t.Run("Seleção vazia - não é consulta vazia", func(t *testing.T) {
		q := dashboarding.FilterQuery{Regions: []string{}}
		assert.False(t, q.IsZero())

		filters, err := q.Resolve(defaults)

		require.NoError(t, err)
		assert.Empty(t, filters.Regions)
	})
}
