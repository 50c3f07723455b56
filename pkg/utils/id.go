package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const (
	idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	idLength   = 6
)

// GenerateID gera identificadores curtos de sessão, seguros para uso na URL
func GenerateID() (string, error) {
	return gonanoid.Generate(idAlphabet, idLength)
}
