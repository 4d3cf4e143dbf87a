package authenticator_test

import (
	"testing"
	"time"

	"github.com/klede-lab/waitlist/config"
	"github.com/klede-lab/waitlist/pkg/authenticator"
	"github.com/stretchr/testify/require"
)

type claim struct {
	Username string `json:"username"`
	Admin    bool   `json:"admin"`
}

func TestJWT(t *testing.T) {
	engine := authenticator.NewTokenEngine[claim]("secret", config.TokenConfigs{Expiration: time.Minute})
	token, err := engine.Generate("admin", claim{Username: "admin", Admin: true})
	require.NoError(t, err)

	obj, err := engine.Verify(token)
	require.NoError(t, err)
	require.Equal(t, claim{Username: "admin", Admin: true}, obj)
}

func TestJWTExpiration(t *testing.T) {
	engine := authenticator.NewTokenEngine[claim]("secret", config.TokenConfigs{Expiration: -time.Minute})
	token, err := engine.Generate("admin", claim{Username: "admin"})
	require.NoError(t, err)

	_, err = engine.Verify(token)
	require.Error(t, err)
}

func TestJWTWrongSecret(t *testing.T) {
	engine := authenticator.NewTokenEngine[claim]("secret", config.TokenConfigs{Expiration: time.Minute})
	token, err := engine.Generate("admin", claim{Username: "admin"})
	require.NoError(t, err)

	other := authenticator.NewTokenEngine[claim]("other", config.TokenConfigs{Expiration: time.Minute})
	_, err = other.Verify(token)
	require.Error(t, err)
}
