package authenticating

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials  = errors.New("credenciais inválidas")
	ErrInvalidToken        = errors.New("token inválido")
	ErrExpiredToken        = errors.New("token expirado")
	ErrAuthDisabled        = errors.New("autenticação desativada")
	ErrMissingRequiredData = errors.New("dados obrigatórios ausentes")
)

// AuthError carrega o código da API junto do erro de login ou de token
type AuthError struct {
	Err     error
	Code    string
	Details string
}

func NewAuthError(err error, code string, details string) *AuthError {
	return &AuthError{Err: err, Code: code, Details: details}
}

func (e *AuthError) Error() string {
	if e.Details == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Details)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func IsCredentialsError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

// IsAuthorizationError cobre token inválido e token expirado
func IsAuthorizationError(err error) bool {
	return errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrExpiredToken)
}
