package authenticator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testToken struct {
	ID    string
	Email string
}

func TestTokenEngine(t *testing.T) {
	engine := NewTokenEngine("secret")

	token, err := engine.Generate(time.Minute, testToken{ID: "user1", Email: "user1@example.com"})
	require.NoError(t, err)

	var decoded testToken
	require.NoError(t, engine.Verify(token, &decoded))
	require.Equal(t, "user1", decoded.ID)
	require.Equal(t, "user1@example.com", decoded.Email)
}

func TestTokenEngineExpired(t *testing.T) {
	engine := NewTokenEngine("secret")

	token, err := engine.Generate(-time.Minute, testToken{ID: "user1"})
	require.NoError(t, err)

	var decoded testToken
	require.Error(t, engine.Verify(token, &decoded))
}

func TestTokenEngineWrongSecret(t *testing.T) {
	token, err := NewTokenEngine("secret-a").Generate(time.Minute, testToken{ID: "user1"})
	require.NoError(t, err)

	var decoded testToken
	require.Error(t, NewTokenEngine("secret-b").Verify(token, &decoded))
}
