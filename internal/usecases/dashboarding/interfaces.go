package dashboarding

import (
	"context"
	"time"

	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/interfaces.go -package=mocks

// TableStore é a origem persistente da tabela de vendas (arquivo CSV ou postgres)
type TableStore interface {
	// Load lê a tabela inteira. Retorna *domain.LoadError em caso de falha.
	Load() (*domain.SalesTable, error)
	// Save sobrescreve a origem com a tabela completa. Retorna *domain.SaveError em caso de falha.
	Save(table *domain.SalesTable) error
}

// Exporter serializa a visão filtrada em um arquivo para download
type Exporter interface {
	Export(table *domain.SalesTable) ([]byte, error)
}

// SessionStore guarda as sessões abertas
type SessionStore interface {
	Add(session *Session) error
	Get(id string) (*Session, bool)
	Delete(id string) bool
	// DeleteIdle remove as sessões sem acesso desde before e retorna os IDs removidos
	DeleteIdle(before time.Time) []string
	Len() int
}

// Dashboarder reúne as operações do painel de vendas sobre uma sessão
type Dashboarder interface {
	OpenSession(ctx context.Context) (*SessionInfo, error)
	CloseSession(ctx context.Context, id string) error
	Filters(ctx context.Context, id string) (*domain.FilterOptions, error)
	Dashboard(ctx context.Context, id string, query FilterQuery) (*domain.DashboardResponse, error)
	Table(ctx context.Context, id string) (*domain.SalesTable, error)
	ReplaceTable(ctx context.Context, id string, table *domain.SalesTable) (*domain.SalesTable, error)
	Save(ctx context.Context, id string) (*SaveResult, error)
	Export(ctx context.Context, id string, query FilterQuery) (*ExportFile, error)
	CleanupIdleSessions(ctx context.Context, maxIdle time.Duration) []string
	ActiveSessions() int
}
