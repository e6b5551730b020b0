// Package password provides the opaque hashing capability used during
// credential verification. The authentication engine only ever sees the
// Hasher interface; bcrypt and argon2id implementations are provided.
package password

// Hasher hashes plaintext passwords and verifies them against stored
// encodings. Implementations must be safe for concurrent use.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
}
