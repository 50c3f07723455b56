package domain

import "github.com/golang-jwt/jwt/v5"

// RoleEditor é o único papel com permissão de alterar a tabela
const RoleEditor = "editor"

// EditorClaims são as informações gravadas no token de quem pode salvar a tabela
type EditorClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// LoginRequest é o corpo do login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginResponse é o token devolvido no login
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}
