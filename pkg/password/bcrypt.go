package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher hash/verify de contraseñas con bcrypt. Nunca guarda ni compara texto plano.
type Hasher struct {
	cost int
}

// NewHasher construye el hasher; cost fuera de rango usa bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash devuelve el digest bcrypt de plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(digest), nil
}

// Verify compara plaintext contra digest. Un digest vacío o corrupto nunca verifica.
func (h *Hasher) Verify(plaintext, digest string) bool {
	if digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
