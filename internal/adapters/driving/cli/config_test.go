package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vkauth/internal/adapters/driven/config/file"
	"github.com/custodia-labs/vkauth/internal/core/domain"
)

func TestConfigSet_And_Show(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "", "config", "set", "client_id", "51234567")
	require.NoError(t, err)
	_, err = env.run(t, "", "config", "set", "scope", "friends,wall")
	require.NoError(t, err)

	out, err := env.run(t, "s3cret-value-42\n", "config", "set", "client_secret")
	require.NoError(t, err)
	assert.Contains(t, out, "Client secret: ")
	assert.Contains(t, out, "Saved client_secret")

	out, err = env.run(t, "", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "client_id:     51234567")
	assert.Contains(t, out, "scope:         friends,wall")
	assert.Contains(t, out, "redirect_uri:  "+domain.VKDefaultRedirectURI+" (default)")
	assert.Contains(t, out, "api_version:   "+domain.VKAPIVersion+" (default)")
	assert.NotContains(t, out, "s3cret-value-42", "secret is masked")
	assert.Contains(t, out, "s3cr")
	assert.NotContains(t, out, "Warning")

	store, err := file.NewConfigStore(env.dir)
	require.NoError(t, err)
	app, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "s3cret-value-42", app.ClientSecret)
}

func TestConfigShow_WarnsOnIncompleteConfig(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "", "config")

	require.NoError(t, err)
	assert.Contains(t, out, "client_id:     (not set)")
	assert.Contains(t, out, "Warning: ")
	assert.Contains(t, out, "client_id is required")
}

func TestConfigSet_Errors(t *testing.T) {
	env := newTestEnv(t)

	t.Run("unknown key", func(t *testing.T) {
		_, err := env.run(t, "", "config", "set", "colour", "blue")
		assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	})

	t.Run("missing value", func(t *testing.T) {
		_, err := env.run(t, "", "config", "set", "client_id")
		assert.ErrorContains(t, err, "a value is required for client_id")
	})

	t.Run("empty secret", func(t *testing.T) {
		_, err := env.run(t, "\n", "config", "set", "client_secret")
		assert.ErrorContains(t, err, "client_secret is required")
	})
}

func TestConfigCmd_NotConfigured(t *testing.T) {
	old := deps
	deps = nil
	defer func() { deps = old }()

	_, err := execute(t, "", "config", "show")

	assert.EqualError(t, err, "config store not configured")
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", maskSecret(""))
	assert.NotContains(t, maskSecret("abcdefghijkl"), "ijkl")
}
