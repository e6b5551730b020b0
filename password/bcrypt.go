package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Bcrypt is a Hasher backed by golang.org/x/crypto/bcrypt. The zero value
// uses bcrypt.DefaultCost.
type Bcrypt struct {
	Cost int
}

// Hash encodes password with the configured cost.
func (b Bcrypt) Hash(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify checks password against encodedHash. A mismatch is reported as
// (false, nil); only a malformed hash yields an error.
func (Bcrypt) Verify(password, encodedHash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
