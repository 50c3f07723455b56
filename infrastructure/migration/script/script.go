package main

import (
	"context"
	"flag"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/datasource/csvfile"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
)

// Cria as tabelas do backend postgres e importa o arquivo CSV configurado.
// Uso: go run ./infrastructure/migration/script [-csv equiv.csv] [-schema-only]
func main() {
	setupLogger()

	csvPath := flag.String("csv", "", "arquivo CSV de origem (padrão: DATASET_PATH)")
	schemaOnly := flag.Bool("schema-only", false, "apenas cria as tabelas")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.WithError(err).Fatal("ERRO ao carregar configuração")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	logrus.Info("Conectando ao banco de dados...")
	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("ERRO ao conectar ao banco de dados")
	}
	defer conn.Close()
	logrus.Info("Conexão com o banco de dados estabelecida com sucesso")

	if err := conn.EnsureSchema(ctx, repository.Schema); err != nil {
		logrus.WithError(err).Fatal("ERRO ao criar tabelas")
	}
	logrus.Info("Tabelas criadas ou já existentes")

	if *schemaOnly {
		return
	}

	path := cfg.Dataset.Path
	if *csvPath != "" {
		path = *csvPath
	}

	startTime := time.Now()
	table, err := csvfile.NewStore(path, cfg.Dataset.Delimiter).Load()
	if err != nil {
		logrus.WithError(err).Fatal("ERRO ao ler arquivo CSV")
	}

	repo := repository.NewSalesRecordRepository(conn)
	if err := repo.ReplaceAll(ctx, table); err != nil {
		logrus.WithError(err).Fatal("ERRO ao importar vendas")
	}

	logrus.WithFields(logrus.Fields{
		"path":    path,
		"rows":    table.Len(),
		"elapsed": time.Since(startTime).String(),
	}).Info("Importação concluída")
}

func setupLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	logrus.Info("Iniciando script de migração...")
}
