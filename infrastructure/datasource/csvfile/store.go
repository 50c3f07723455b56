// Package csvfile implementa a leitura e a gravação da tabela de vendas em arquivo delimitado
package csvfile

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

const dateTimeLayout = "2006-01-02 15:04:05"

// Formatos de data aceitos na coluna Data, na ordem de tentativa.
// Datas com barra são lidas como dia/mês/ano.
var dateLayouts = []string{
	time.DateOnly,
	dateTimeLayout,
	time.RFC3339,
	"02/01/2006",
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Store lê e grava a tabela de vendas em um arquivo CSV
type Store struct {
	path      string
	delimiter rune
}

// NewStore cria um Store para o arquivo informado. Delimitador vazio usa vírgula.
func NewStore(path string, delimiter string) *Store {
	sep := ','
	if delimiter != "" {
		sep = []rune(delimiter)[0]
	}

	return &Store{
		path:      path,
		delimiter: sep,
	}
}

// Load lê o arquivo inteiro e converte cada linha em um SalesRecord.
// Qualquer data inválida faz a carga inteira falhar.
func (s *Store) Load() (*domain.SalesTable, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewLoadError(domain.LoadNotFound, s.path, domain.ErrDatasetNotFound)
		}
		return nil, domain.NewLoadError(domain.LoadOther, s.path, err)
	}

	content = bytes.TrimPrefix(content, utf8BOM)
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, domain.NewLoadError(domain.LoadEmpty, s.path, domain.ErrDatasetEmpty)
	}

	table, err := s.parse(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	if table.IsEmpty() {
		return nil, domain.NewLoadError(domain.LoadEmpty, s.path, domain.ErrDatasetEmpty)
	}

	logrus.WithFields(logrus.Fields{
		"path":    s.path,
		"rows":    table.Len(),
		"columns": len(table.Columns),
	}).Info("Arquivo de vendas carregado com sucesso")

	return table, nil
}

func (s *Store) parse(r io.Reader) (*domain.SalesTable, error) {
	reader := csv.NewReader(r)
	reader.Comma = s.delimiter
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domain.NewLoadError(domain.LoadEmpty, s.path, domain.ErrDatasetEmpty)
		}
		return nil, domain.NewLoadError(domain.LoadParseFailure, s.path, err)
	}

	columns := make([]string, 0, len(header))
	for _, name := range header {
		columns = append(columns, strings.TrimSpace(name))
	}

	index := make(map[string]int, len(columns))
	for i, name := range columns {
		if _, exists := index[name]; !exists {
			index[name] = i
		}
	}

	for _, required := range domain.RequiredColumns {
		if _, ok := index[required]; !ok {
			return nil, domain.NewLoadError(domain.LoadParseFailure, s.path,
				fmt.Errorf("%w: %s", domain.ErrMissingColumn, required))
		}
	}

	records := make([]*domain.SalesRecord, 0)
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, domain.NewLoadError(domain.LoadParseFailure, s.path, err)
		}

		if isBlankRow(row) {
			continue
		}

		record, err := parseRecord(row, columns, index)
		if err != nil {
			return nil, domain.NewLoadError(domain.LoadParseFailure, s.path,
				fmt.Errorf("%w: linha %d: %v", domain.ErrDatasetParse, line, err))
		}

		records = append(records, record)
	}

	return domain.NewSalesTable(columns, records), nil
}

func parseRecord(row []string, columns []string, index map[string]int) (*domain.SalesRecord, error) {
	field := func(name string) string {
		i := index[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	date, err := ParseDate(field(domain.ColumnDate))
	if err != nil {
		return nil, err
	}

	sales, err := parseFloat(field(domain.ColumnSales))
	if err != nil {
		return nil, fmt.Errorf("coluna %s: %w", domain.ColumnSales, err)
	}

	visits, err := parseInt(field(domain.ColumnVisits))
	if err != nil {
		return nil, fmt.Errorf("coluna %s: %w", domain.ColumnVisits, err)
	}

	target, err := parseFloat(field(domain.ColumnTarget))
	if err != nil {
		return nil, fmt.Errorf("coluna %s: %w", domain.ColumnTarget, err)
	}

	record := &domain.SalesRecord{
		Date:    date,
		Product: field(domain.ColumnProduct),
		Region:  field(domain.ColumnRegion),
		Channel: field(domain.ColumnChannel),
		Sales:   sales,
		Visits:  visits,
		Target:  target,
	}

	for i, name := range columns {
		if isCanonical(name) || index[name] != i {
			continue
		}
		if record.Extra == nil {
			record.Extra = make(map[string]string)
		}
		if i < len(row) {
			record.Extra[name] = row[i]
		} else {
			record.Extra[name] = ""
		}
	}

	return record, nil
}

// ParseDate interpreta uma data da coluna Data em um dos formatos aceitos
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("data vazia")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("data inválida: %q", value)
}

// FormatDate grava só o dia quando a data não tem horário
func FormatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format(time.DateOnly)
	}
	return t.Format(dateTimeLayout)
}

// parseFloat aceita apenas números finitos. NaN e Inf são rejeitados.
func parseFloat(value string) (float64, error) {
	if value == "" {
		return 0, nil
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("valor não finito: %q", value)
	}
	return f, nil
}

func parseInt(value string) (int64, error) {
	if value == "" {
		return 0, nil
	}

	if i, err := strconv.ParseInt(value, 10, 64); err == nil {
		return i, nil
	}

	f, err := parseFloat(value)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("valor não inteiro: %q", value)
	}

	return int64(f), nil
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func isCanonical(name string) bool {
	for _, c := range domain.RequiredColumns {
		if c == name {
			return true
		}
	}
	return false
}

// Save sobrescreve o arquivo com a tabela editada completa, incluindo o cabeçalho.
// O conteúdo é gravado em um arquivo temporário e renomeado sobre o original.
func (s *Store) Save(table *domain.SalesTable) error {
	if table == nil {
		return domain.NewSaveError(domain.SaveOther, s.path, fmt.Errorf("tabela nula"))
	}

	var buf bytes.Buffer
	if err := s.write(&buf, table); err != nil {
		return domain.NewSaveError(domain.SaveOther, s.path, err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return domain.NewSaveError(domain.SaveIOFailure, s.path, err)
	}
	tmpName := tmp.Name()
	_ = tmp.Chmod(0o644)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return domain.NewSaveError(domain.SaveIOFailure, s.path, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return domain.NewSaveError(domain.SaveIOFailure, s.path, err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return domain.NewSaveError(domain.SaveIOFailure, s.path, err)
	}

	logrus.WithFields(logrus.Fields{
		"path": s.path,
		"rows": table.Len(),
	}).Info("Arquivo de vendas atualizado com sucesso")

	return nil
}

func (s *Store) write(w io.Writer, table *domain.SalesTable) error {
	writer := csv.NewWriter(w)
	writer.Comma = s.delimiter

	columns := table.Columns
	if len(columns) == 0 {
		columns = domain.RequiredColumns
	}

	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("erro ao escrever cabeçalho: %w", err)
	}

	for i, record := range table.Records {
		if record == nil {
			continue
		}
		if err := writer.Write(RecordValues(record, columns)); err != nil {
			return fmt.Errorf("erro ao escrever linha %d: %w", i+1, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// RecordValues retorna os valores do registro, já formatados, na ordem das colunas informadas
func RecordValues(record *domain.SalesRecord, columns []string) []string {
	values := make([]string, 0, len(columns))
	for _, column := range columns {
		switch v := record.Value(column).(type) {
		case time.Time:
			values = append(values, FormatDate(v))
		case float64:
			values = append(values, strconv.FormatFloat(v, 'f', -1, 64))
		case int64:
			values = append(values, strconv.FormatInt(v, 10))
		case string:
			values = append(values, v)
		default:
			values = append(values, fmt.Sprint(v))
		}
	}
	return values
}
