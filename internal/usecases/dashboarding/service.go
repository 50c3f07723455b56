package dashboarding

import (
	"context"
	"fmt"
	"time"

	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
	"github.com/vfg2006/sales-dashboard-api/pkg/metrics"
)

// FilterQuery são os filtros pedidos pelo usuário.
// Um slice nil mantém todos os valores observados; um slice vazio (não nil) é uma seleção vazia.
type FilterQuery struct {
	Products []string
	Regions  []string
	Channels []string
	Dates    []time.Time
}

// IsZero indica que nenhum filtro foi informado
func (q FilterQuery) IsZero() bool {
	return q.Products == nil && q.Regions == nil && q.Channels == nil && len(q.Dates) == 0
}

// Resolve completa a consulta com as opções padrão da tabela
func (q FilterQuery) Resolve(defaults *domain.FilterOptions) (domain.SalesFilters, error) {
	filters := defaults.ToFilters()

	if q.Products != nil {
		filters.Products = q.Products
	}
	if q.Regions != nil {
		filters.Regions = q.Regions
	}
	if q.Channels != nil {
		filters.Channels = q.Channels
	}

	start, end, err := domain.NormalizeDateRange(q.Dates, defaults)
	if err != nil {
		return domain.SalesFilters{}, err
	}
	filters.StartDate = start
	filters.EndDate = end

	return filters, nil
}

// SaveResult resume uma gravação bem sucedida
type SaveResult struct {
	Rows    int       `json:"rows"`
	SavedAt time.Time `json:"saved_at"`
}

// ExportFile é a planilha gerada a partir da visão filtrada
type ExportFile struct {
	FileName    string
	ContentType string
	Content     []byte
	Rows        int
}

var _ Dashboarder = (*Service)(nil)

// Service implementa Dashboarder
type Service struct {
	store       TableStore
	exporter    Exporter
	sessions    SessionStore
	metrics     *metrics.Metrics
	fileName    string
	contentType string
	now         func() time.Time
}

// Option altera a configuração do Service
type Option func(*Service)

// WithMetrics registra as operações no coletor informado
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock troca o relógio usado para controlar o acesso às sessões
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService cria o serviço do painel
func NewService(
	store TableStore,
	exporter Exporter,
	sessions SessionStore,
	fileName string,
	contentType string,
	opts ...Option,
) *Service {
	s := &Service{
		store:       store,
		exporter:    exporter,
		sessions:    sessions,
		fileName:    fileName,
		contentType: contentType,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// OpenSession carrega a tabela da origem e cria uma sessão sobre ela.
// Se a carga falhar nenhuma sessão é criada.
func (s *Service) OpenSession(ctx context.Context) (*SessionInfo, error) {
	logger := log.ForContext(ctx)

	table, err := s.store.Load()
	if err != nil {
		s.metrics.SessionOpened(metrics.ResultFailure)
		logger.WithError(err).Error("Erro ao carregar tabela de vendas")
		return nil, loadError(err)
	}

	id, err := newSessionID(s.sessions)
	if err != nil {
		return nil, err
	}

	session := NewSession(id, table, s.now())
	if err := s.sessions.Add(session); err != nil {
		return nil, err
	}

	s.metrics.SessionOpened(metrics.ResultSuccess)
	s.metrics.SetActiveSessions(s.sessions.Len())

	logger.WithFields(log.Fields{
		"session_id": id,
		"rows":       table.Len(),
	}).Info("Sessão aberta")

	return &SessionInfo{
		ID:        id,
		Rows:      table.Len(),
		Columns:   append([]string(nil), table.Columns...),
		Defaults:  domain.DefaultFilters(table),
		CreatedAt: session.createdAt,
	}, nil
}

// CloseSession descarta a sessão e qualquer edição não salva
func (s *Service) CloseSession(ctx context.Context, id string) error {
	if !s.sessions.Delete(id) {
		return NewDashboardError(ErrSessionNotFound, apiErrors.ErrSessionNotFound, id, "")
	}

	s.metrics.SetActiveSessions(s.sessions.Len())
	log.ForContext(ctx).WithField("session_id", id).Info("Sessão encerrada")

	return nil
}

// Filters retorna os valores disponíveis para cada filtro e o período completo
func (s *Service) Filters(ctx context.Context, id string) (*domain.FilterOptions, error) {
	session, err := s.acquire(id)
	if err != nil {
		return nil, err
	}
	defer session.mu.Unlock()

	return domain.DefaultFilters(session.table), nil
}

// Dashboard aplica os filtros à tabela da sessão e calcula KPIs, gráficos e a tabela detalhada.
// Os filtros resolvidos passam a ser os filtros atuais da sessão.
func (s *Service) Dashboard(ctx context.Context, id string, query FilterQuery) (*domain.DashboardResponse, error) {
	session, err := s.acquire(id)
	if err != nil {
		return nil, err
	}
	defer session.mu.Unlock()

	filters, err := query.Resolve(domain.DefaultFilters(session.table))
	if err != nil {
		return nil, NewDashboardError(err, apiErrors.ErrInvalidRequest, id, "")
	}
	session.filters = &filters

	response := domain.BuildDashboard(session.table, filters)
	s.metrics.DashboardViewed(response.KPIs.RowCount)

	log.ForContext(ctx).WithFields(log.Fields{
		"session_id": id,
		"rows":       response.KPIs.RowCount,
	}).Debug("Painel calculado")

	return response, nil
}

// Table retorna a cópia editável da tabela completa
func (s *Service) Table(ctx context.Context, id string) (*domain.SalesTable, error) {
	session, err := s.acquire(id)
	if err != nil {
		return nil, err
	}
	defer session.mu.Unlock()

	return session.edited.Clone(), nil
}

// ReplaceTable substitui a cópia editável. Linhas podem ser adicionadas, removidas ou alteradas
// livremente; apenas a forma da tabela é verificada.
func (s *Service) ReplaceTable(ctx context.Context, id string, table *domain.SalesTable) (*domain.SalesTable, error) {
	if table == nil {
		return nil, NewDashboardError(ErrInvalidTable, apiErrors.ErrMissingRequiredData, id, "tabela ausente")
	}
	for i, record := range table.Records {
		if record == nil {
			return nil, NewDashboardError(ErrInvalidTable, apiErrors.ErrInvalidFormat, id, fmt.Sprintf("linha vazia na posição %d", i))
		}
	}

	session, err := s.acquire(id)
	if err != nil {
		return nil, err
	}
	defer session.mu.Unlock()

	edited := table.Clone()
	if len(edited.Columns) == 0 {
		edited.Columns = append([]string(nil), session.table.Columns...)
	}
	session.edited = edited

	log.ForContext(ctx).WithFields(log.Fields{
		"session_id": id,
		"rows":       edited.Len(),
	}).Info("Tabela em edição atualizada")

	return edited.Clone(), nil
}

// Save grava a tabela editada completa na origem.
// Em caso de falha a edição continua na sessão e a gravação pode ser repetida.
// Em caso de sucesso a tabela do painel passa a ser a tabela gravada.
func (s *Service) Save(ctx context.Context, id string) (*SaveResult, error) {
	logger := log.ForContext(ctx).WithField("session_id", id)

	session, err := s.acquire(id)
	if err != nil {
		return nil, err
	}
	defer session.mu.Unlock()

	if err := s.store.Save(session.edited); err != nil {
		s.metrics.SaveFinished(metrics.ResultFailure)
		logger.WithError(err).Error("Erro ao salvar tabela editada")
		return nil, NewDashboardError(err, apiErrors.ErrSaveFailed, id, "")
	}

	session.table = session.edited.Clone()
	s.metrics.SaveFinished(metrics.ResultSuccess)

	logger.WithField("rows", session.table.Len()).Info("Tabela editada salva")

	return &SaveResult{
		Rows:    session.table.Len(),
		SavedAt: s.now(),
	}, nil
}

// Export gera a planilha da visão filtrada. Sem filtros na consulta usa os filtros atuais da sessão.
// Uma visão vazia não gera arquivo.
func (s *Service) Export(ctx context.Context, id string, query FilterQuery) (*ExportFile, error) {
	logger := log.ForContext(ctx).WithField("session_id", id)

	session, err := s.acquire(id)
	if err != nil {
		return nil, err
	}
	defer session.mu.Unlock()

	var filters domain.SalesFilters
	if query.IsZero() && session.filters != nil {
		filters = *session.filters
	} else {
		filters, err = query.Resolve(domain.DefaultFilters(session.table))
		if err != nil {
			return nil, NewDashboardError(err, apiErrors.ErrInvalidRequest, id, "")
		}
	}

	filtered := domain.FilterRecords(session.table, filters)
	if filtered.IsEmpty() {
		s.metrics.ExportFinished(metrics.ResultEmpty)
		return nil, NewDashboardError(ErrNothingToExport, apiErrors.ErrNothingToExport, id, "")
	}

	content, err := s.exporter.Export(filtered)
	if err != nil {
		s.metrics.ExportFinished(metrics.ResultFailure)
		logger.WithError(err).Error("Erro ao exportar planilha")
		return nil, NewDashboardError(ErrExportFailed, apiErrors.ErrExportFailed, id, err.Error())
	}

	s.metrics.ExportFinished(metrics.ResultSuccess)
	logger.WithField("rows", filtered.Len()).Info("Planilha exportada")

	return &ExportFile{
		FileName:    s.fileName,
		ContentType: s.contentType,
		Content:     content,
		Rows:        filtered.Len(),
	}, nil
}

// CleanupIdleSessions encerra as sessões sem uso há mais de maxIdle
func (s *Service) CleanupIdleSessions(ctx context.Context, maxIdle time.Duration) []string {
	removed := s.sessions.DeleteIdle(s.now().Add(-maxIdle))
	s.metrics.SetActiveSessions(s.sessions.Len())

	if len(removed) > 0 {
		log.ForContext(ctx).WithField("sessions", removed).Info("Sessões inativas encerradas")
	}

	return removed
}

// ActiveSessions retorna a quantidade de sessões abertas
func (s *Service) ActiveSessions() int {
	return s.sessions.Len()
}

// acquire busca a sessão e a retorna travada. Quem chama deve liberar session.mu.
func (s *Service) acquire(id string) (*Session, error) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return nil, NewDashboardError(ErrSessionNotFound, apiErrors.ErrSessionNotFound, id, "")
	}

	session.mu.Lock()
	session.touch(s.now())

	return session, nil
}

func loadError(err error) error {
	code := apiErrors.ErrDatasetLoad
	switch domain.LoadErrorKindOf(err) {
	case domain.LoadNotFound:
		code = apiErrors.ErrDatasetNotFound
	case domain.LoadEmpty:
		code = apiErrors.ErrDatasetEmpty
	case domain.LoadParseFailure:
		code = apiErrors.ErrDatasetParse
	}

	return NewDashboardError(err, code, "", "")
}
