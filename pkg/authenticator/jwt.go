package authenticator

import (
	"fmt"
	"time"

	"github.com/fatih/structs"
	"github.com/golang-jwt/jwt/v4"
	"github.com/mitchellh/mapstructure"
)

// TokenEngine signs and verifies short-lived bearer tokens. The object is
// embedded into the claims, so any struct with exported fields round-trips.
type TokenEngine interface {
	Generate(expiration time.Duration, obj any) (string, error)
	Verify(token string, obj any) error
}

type standardClaims struct {
	jwt.RegisteredClaims
	Object map[string]any `json:"obj,omitempty"`
}

type jwtTokenEngine struct {
	secret string
}

func NewTokenEngine(secret string) TokenEngine {
	return &jwtTokenEngine{secret: secret}
}

func (e *jwtTokenEngine) Generate(expiration time.Duration, obj any) (string, error) {
	now := time.Now()
	claims := standardClaims{
		Object: structs.Map(obj),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(e.secret))
}

func (e *jwtTokenEngine) Verify(token string, obj any) error {
	var claims standardClaims
	_, err := jwt.ParseWithClaims(
		token, &claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(e.secret), nil
		},
	)
	if err != nil {
		return err
	}

	return mapstructure.Decode(claims.Object, obj)
}
