package main

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/datasource/csvfile"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/exporter/xlsx"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/sales-dashboard-api/internal/api"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/internal/scheduler"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/dashboarding"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
	"github.com/vfg2006/sales-dashboard-api/pkg/metrics"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	log.Configure(cfg.App.LogLevel)
	logrus.Infof("Nível de log configurado para: %s", logrus.GetLevel())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var store dashboarding.TableStore
	switch cfg.Dataset.Backend {
	case config.BackendPostgres:
		pgConn := pgconn(ctx, cfg.Database)
		defer pgConn.Close()

		if err := pgConn.EnsureSchema(ctx, repository.Schema); err != nil {
			logrus.WithError(err).Fatal("Erro ao preparar tabelas de vendas")
		}

		store = repository.NewSalesRecordRepository(pgConn)
		logrus.Info("Tabela de vendas servida pelo PostgreSQL")
	default:
		store = csvfile.NewStore(cfg.Dataset.Path, cfg.Dataset.Delimiter)
		logrus.WithField("path", cfg.Dataset.Path).Info("Tabela de vendas servida por arquivo CSV")
	}

	m := metrics.New()

	dashboardService := dashboarding.NewService(
		store,
		xlsx.NewExporter(cfg.Export.SheetName),
		dashboarding.NewMemorySessionStore(),
		cfg.Export.FileName,
		xlsx.ContentType,
		dashboarding.WithMetrics(m),
	)

	authenticator := authenticating.NewService(cfg.Auth)

	sessionCleanupService := scheduler.NewSessionCleanupService(dashboardService, cfg)
	if err := sessionCleanupService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de limpeza de sessões")
	} else {
		logrus.Info("Agendador de limpeza de sessões iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		dashboardService,
		authenticator,
		sessionCleanupService,
		m,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
