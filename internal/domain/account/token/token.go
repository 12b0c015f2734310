package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Kind separates access tokens from refresh tokens. Tokens of different
// kinds are never interchangeable: Decode rejects a kind mismatch outright.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Claims is the full signed claim set: {sub, token_version, type, iat, exp}.
type Claims struct {
	jwt.RegisteredClaims
	TokenVersion int  `json:"token_version"`
	Kind         Kind `json:"type"`
}

type Codec interface {
	Issue(subject uuid.UUID, tokenVersion int, kind Kind) (token string, expiresAt time.Time, err error)
	Decode(raw string, expected Kind) (Claims, error)
}
