package password

import (
	"github.com/alexedwards/argon2id"
)

var params = &argon2id.Params{
	Memory:      64 * 1024, // 64 MiB
	Iterations:  2,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

// Hasher is the one-way credential hashing boundary. Both operations are
// pure: no state, no side effects.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) (bool, error)
}

type argonHasher struct{}

func NewHasher() Hasher {
	return argonHasher{}
}

func (argonHasher) Hash(password string) (string, error) {
	return argon2id.CreateHash(password, params)
}

// Verify delegates the comparison to the scheme itself; hashes are salted,
// so re-hashing and comparing strings would never work anyway.
func (argonHasher) Verify(password, hash string) (bool, error) {
	return argon2id.ComparePasswordAndHash(password, hash)
}
