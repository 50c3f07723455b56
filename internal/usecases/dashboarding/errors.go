package dashboarding

import (
	"errors"
	"fmt"
)

var (
	ErrSessionNotFound = errors.New("sessão não encontrada")
	ErrNothingToExport = errors.New("nenhum dado disponível para exportar com os filtros atuais")
	ErrExportFailed    = errors.New("erro ao gerar a planilha")
	ErrInvalidTable    = errors.New("tabela inválida")
)

// DashboardError é um erro com contexto adicional para o painel
type DashboardError struct {
	Err       error  // Erro base
	Code      string // Código de erro para API
	SessionID string // Sessão envolvida (quando aplicável)
	Details   string // Detalhes adicionais
}

// Error implementa a interface error
func (e *DashboardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *DashboardError) Unwrap() error {
	return e.Err
}

// NewDashboardError cria um novo DashboardError
func NewDashboardError(err error, code string, sessionID string, details string) *DashboardError {
	return &DashboardError{
		Err:       err,
		Code:      code,
		SessionID: sessionID,
		Details:   details,
	}
}
