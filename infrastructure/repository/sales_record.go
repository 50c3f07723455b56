// Package repository contém as implementações dos repositórios para acesso aos dados
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/Masterminds/squirrel"
	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	salesRecordsTable = "sales_records"
	salesColumnsTable = "sales_table_columns"

	// Código do postgres para relação inexistente
	undefinedTableCode = "42P01"

	insertBatchSize = 500
)

// Schema cria as tabelas usadas pelo backend postgres
const Schema = `
CREATE TABLE IF NOT EXISTS sales_records (
	position   INTEGER PRIMARY KEY,
	date       TIMESTAMP NOT NULL,
	product    TEXT NOT NULL,
	region     TEXT NOT NULL,
	channel    TEXT NOT NULL,
	sales      DOUBLE PRECISION NOT NULL DEFAULT 0,
	visits     BIGINT NOT NULL DEFAULT 0,
	target     DOUBLE PRECISION NOT NULL DEFAULT 0,
	extra      JSONB,
	updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS sales_table_columns (
	id      INTEGER PRIMARY KEY,
	columns TEXT[] NOT NULL
);`

// SalesRecordRepository guarda a tabela de vendas inteira no postgres.
// A ordem das linhas é mantida pela coluna position.
type SalesRecordRepository struct {
	conn postgres.Conn
	name string
}

func NewSalesRecordRepository(conn postgres.Conn) *SalesRecordRepository {
	return &SalesRecordRepository{
		conn: conn,
		name: "postgres:" + salesRecordsTable,
	}
}

// Load lê todas as linhas, na ordem em que foram gravadas
func (r *SalesRecordRepository) Load() (*domain.SalesTable, error) {
	columns, err := r.loadColumns()
	if err != nil {
		return nil, err
	}

	query, args, err := squirrel.
		Select("date", "product", "region", "channel", "sales", "visits", "target", "extra").
		From(salesRecordsTable).
		OrderBy("position ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, domain.NewLoadError(domain.LoadOther, r.name, fmt.Errorf("erro ao construir a query: %w", err))
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, r.loadError(err)
	}
	defer rows.Close()

	records := make([]*domain.SalesRecord, 0)
	for rows.Next() {
		var (
			record domain.SalesRecord
			extra  []byte
		)
		if err := rows.Scan(
			&record.Date,
			&record.Product,
			&record.Region,
			&record.Channel,
			&record.Sales,
			&record.Visits,
			&record.Target,
			&extra,
		); err != nil {
			return nil, domain.NewLoadError(domain.LoadParseFailure, r.name, fmt.Errorf("erro ao ler linha: %w", err))
		}

		if !isFinite(record.Sales) || !isFinite(record.Target) {
			return nil, domain.NewLoadError(domain.LoadParseFailure, r.name, fmt.Errorf("valor não finito na linha %d", len(records)+1))
		}

		if len(extra) > 0 {
			if err := json.Unmarshal(extra, &record.Extra); err != nil {
				return nil, domain.NewLoadError(domain.LoadParseFailure, r.name, fmt.Errorf("erro ao ler colunas extras: %w", err))
			}
		}

		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, r.loadError(err)
	}

	if len(records) == 0 {
		return nil, domain.NewLoadError(domain.LoadEmpty, r.name, domain.ErrDatasetEmpty)
	}

	return domain.NewSalesTable(columns, records), nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (r *SalesRecordRepository) loadColumns() ([]string, error) {
	query, args, err := squirrel.
		Select("columns").
		From(salesColumnsTable).
		Where(squirrel.Eq{"id": 1}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, domain.NewLoadError(domain.LoadOther, r.name, fmt.Errorf("erro ao construir a query: %w", err))
	}

	var columns []string
	err = r.conn.QueryRow(query, args...).Scan(pq.Array(&columns))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, r.loadError(err)
	}

	return columns, nil
}

func (r *SalesRecordRepository) loadError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == undefinedTableCode {
		return domain.NewLoadError(domain.LoadNotFound, r.name, fmt.Errorf("%w: %v", domain.ErrDatasetNotFound, err))
	}
	return domain.NewLoadError(domain.LoadOther, r.name, fmt.Errorf("erro ao executar a query: %w", err))
}

// Save substitui a tabela gravada pela tabela informada em uma única transação
func (r *SalesRecordRepository) Save(table *domain.SalesTable) error {
	return r.ReplaceAll(context.Background(), table)
}

// ReplaceAll apaga as linhas existentes e insere a tabela completa.
// Se qualquer passo falhar nada é alterado.
func (r *SalesRecordRepository) ReplaceAll(ctx context.Context, table *domain.SalesTable) error {
	if table == nil {
		return domain.NewSaveError(domain.SaveOther, r.name, fmt.Errorf("tabela nula"))
	}

	inserts, err := buildInserts(table.Records)
	if err != nil {
		return domain.NewSaveError(domain.SaveOther, r.name, err)
	}

	columns := table.Columns
	if len(columns) == 0 {
		columns = domain.RequiredColumns
	}

	upsertColumns, columnArgs, err := squirrel.
		Insert(salesColumnsTable).
		Columns("id", "columns").
		Values(1, pq.Array(columns)).
		Suffix("ON CONFLICT (id) DO UPDATE SET columns = EXCLUDED.columns").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return domain.NewSaveError(domain.SaveOther, r.name, fmt.Errorf("erro ao construir a query: %w", err))
	}

	err = r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM " + salesRecordsTable); err != nil {
			return fmt.Errorf("erro ao limpar tabela de vendas: %w", err)
		}

		for _, insert := range inserts {
			if _, err := tx.Exec(insert.query, insert.args...); err != nil {
				return fmt.Errorf("erro ao inserir vendas: %w", err)
			}
		}

		if _, err := tx.Exec(upsertColumns, columnArgs...); err != nil {
			return fmt.Errorf("erro ao gravar colunas: %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.NewSaveError(domain.SaveIOFailure, r.name, err)
	}

	return nil
}

type insertStatement struct {
	query string
	args  []interface{}
}

func buildInserts(all []*domain.SalesRecord) ([]insertStatement, error) {
	records := make([]*domain.SalesRecord, 0, len(all))
	for _, record := range all {
		if record != nil {
			records = append(records, record)
		}
	}

	statements := make([]insertStatement, 0, len(records)/insertBatchSize+1)

	for start := 0; start < len(records); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(records) {
			end = len(records)
		}

		builder := squirrel.
			Insert(salesRecordsTable).
			Columns("position", "date", "product", "region", "channel", "sales", "visits", "target", "extra").
			PlaceholderFormat(squirrel.Dollar)

		for i, record := range records[start:end] {
			var extra interface{}
			if len(record.Extra) > 0 {
				encoded, err := json.Marshal(record.Extra)
				if err != nil {
					return nil, fmt.Errorf("erro ao serializar colunas extras: %w", err)
				}
				extra = string(encoded)
			}

			builder = builder.Values(
				start+i,
				record.Date,
				record.Product,
				record.Region,
				record.Channel,
				record.Sales,
				record.Visits,
				record.Target,
				extra,
			)
		}

		query, args, err := builder.ToSql()
		if err != nil {
			return nil, fmt.Errorf("erro ao construir a query: %w", err)
		}

		statements = append(statements, insertStatement{query: query, args: args})
	}

	return statements, nil
}
