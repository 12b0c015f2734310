package token

import (
	"time"

	customErrors "github.com/campushq/account-service/internal/domain/account/errors"
	domtoken "github.com/campushq/account-service/internal/domain/account/token"
	"github.com/campushq/account-service/internal/infra/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type codecImpl struct {
	key        []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewCodec builds the signing codec from process configuration. Only HMAC
// methods are accepted: the configured secret is a shared key, not a PEM pair.
func NewCodec(cfg *config.Config) (domtoken.Codec, error) {
	method := jwt.GetSigningMethod(cfg.JWTAlgorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, customErrors.NewInvalidArgument("unsupported signing algorithm " + cfg.JWTAlgorithm)
	}

	return &codecImpl{
		key:        []byte(cfg.JWTSecret),
		method:     method,
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
	}, nil
}

func (c *codecImpl) Issue(subject uuid.UUID, tokenVersion int, kind domtoken.Kind) (string, time.Time, error) {
	now := time.Now()
	ttl := c.accessTTL
	if kind == domtoken.KindRefresh {
		ttl = c.refreshTTL
	}

	claims := domtoken.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenVersion: tokenVersion,
		Kind:         kind,
	}

	signed, err := jwt.NewWithClaims(c.method, claims).SignedString(c.key)
	if err != nil {
		return "", time.Time{}, customErrors.WrapInternal(err, "sign token")
	}
	return signed, claims.ExpiresAt.Time, nil
}

// Decode verifies signature and expiry in the single ParseWithClaims call;
// only the kind check remains on this side of the library boundary. Every
// failure collapses to ErrInvalidToken.
func (c *codecImpl) Decode(raw string, expected domtoken.Kind) (domtoken.Claims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &domtoken.Claims{}, func(t *jwt.Token) (interface{}, error) {
		return c.key, nil
	},
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return domtoken.Claims{}, customErrors.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*domtoken.Claims)
	if !ok {
		return domtoken.Claims{}, customErrors.ErrInvalidToken
	}

	if claims.Kind != expected {
		return domtoken.Claims{}, customErrors.ErrInvalidToken
	}

	return *claims, nil
}
