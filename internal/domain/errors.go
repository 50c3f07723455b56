package domain

import (
	"errors"
	"fmt"
)

// LoadErrorKind classifica as falhas de carga da tabela
type LoadErrorKind string

const (
	LoadNotFound     LoadErrorKind = "not_found"
	LoadEmpty        LoadErrorKind = "empty"
	LoadParseFailure LoadErrorKind = "parse_failure"
	LoadOther        LoadErrorKind = "other"
)

// SaveErrorKind classifica as falhas de gravação da tabela
type SaveErrorKind string

const (
	SaveIOFailure SaveErrorKind = "io_failure"
	SaveOther     SaveErrorKind = "other"
)

var (
	ErrDatasetNotFound = errors.New("arquivo de dados não encontrado")
	ErrDatasetEmpty    = errors.New("arquivo de dados vazio")
	ErrDatasetParse    = errors.New("erro ao interpretar o arquivo de dados")
	ErrMissingColumn   = errors.New("coluna obrigatória ausente")
)

// LoadError é o erro retornado quando a tabela de vendas não pode ser carregada.
// Uma falha de carga é irrecuperável para a sessão: nenhum painel é exibido.
type LoadError struct {
	Kind LoadErrorKind
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("erro ao carregar %q (%s): %v", e.Path, e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError cria um LoadError
func NewLoadError(kind LoadErrorKind, path string, err error) *LoadError {
	return &LoadError{Kind: kind, Path: path, Err: err}
}

// SaveError é o erro retornado quando a tabela editada não pode ser gravada.
// É recuperável: o estado editado continua em memória e a gravação pode ser repetida.
type SaveError struct {
	Kind SaveErrorKind
	Path string
	Err  error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("erro ao salvar %q (%s): %v", e.Path, e.Kind, e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

// NewSaveError cria um SaveError
func NewSaveError(kind SaveErrorKind, path string, err error) *SaveError {
	return &SaveError{Kind: kind, Path: path, Err: err}
}

// LoadErrorKindOf retorna o tipo do LoadError contido em err, ou LoadOther
func LoadErrorKindOf(err error) LoadErrorKind {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Kind
	}
	return LoadOther
}
