package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vkauth/internal/adapters/driving/oauth"
	"github.com/custodia-labs/vkauth/internal/core/domain"
)

const tokenBody = `{"access_token":"533bacf01e11f55b536a565b57531ac114461ae8736d6506a3","expires_in":86400,"user_id":66748,"email":"user@example.com"}`

// expectCode serves tokenBody when the exchange carries code and secret.
func expectCode(t *testing.T, code, secret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, code, r.PostForm.Get("code"))
		assert.Equal(t, secret, r.PostForm.Get("client_secret"))
		_, _ = io.WriteString(w, tokenBody)
	}
}

func TestLoginCmd_Paste(t *testing.T) {
	env := newTestEnv(t)
	env.configure(t, cliApp)
	env.tokenEndpoint(t, expectCode(t, "the-code", "s3cret"))
	tokenFile := filepath.Join(t.TempDir(), "token.json")

	out, err := env.run(t, "https://oauth.vk.com/blank.html#code=the-code&state=test-state\n",
		"login", "--paste", "--scope", "wall", "-o", tokenFile)

	require.NoError(t, err)
	assert.Contains(t, out, "scope=wall")
	assert.Contains(t, out, "state=test-state")
	assert.Contains(t, out, `"user_id": 66748`)
	assert.Contains(t, out, `"email": "user@example.com"`)
	assert.Contains(t, out, "Authorized user 66748; token expires ")
	assert.Contains(t, out, "from now")
	assert.Contains(t, out, "Token saved to "+tokenFile)

	info, err := os.Stat(tokenFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	data, err := os.ReadFile(tokenFile)
	require.NoError(t, err)
	var token domain.AccessToken
	require.NoError(t, json.Unmarshal(data, &token))
	assert.Equal(t, uint64(66748), token.UserID())
	assert.Equal(t, "533bacf01e11f55b536a565b57531ac114461ae8736d6506a3", token.AccessToken())
	assert.False(t, token.Expired())
}

func TestLoginCmd_PromptsForMissingSecret(t *testing.T) {
	env := newTestEnv(t)
	env.configure(t, domain.AppConfig{ClientID: "123"})
	env.tokenEndpoint(t, expectCode(t, "bare-code", "typed-secret"))

	out, err := env.run(t, "typed-secret\nbare-code\n", "login", "--paste")

	require.NoError(t, err)
	assert.Contains(t, out, "Client secret: ")
	assert.Contains(t, out, `"user_id": 66748`)
}

func TestLoginCmd_Callback(t *testing.T) {
	port := freePort(t)
	env := newTestEnv(t)
	app := cliApp
	app.RedirectURI = fmt.Sprintf("http://localhost:%d%s", port, oauth.CallbackPath)
	env.configure(t, app)
	env.tokenEndpoint(t, expectCode(t, "cb-code", "s3cret"))

	done := make(chan error, 1)
	go func() {
		_, err := env.run(t, "", "login", "--no-browser", "--timeout", "10s")
		done <- err
	}()

	callback := fmt.Sprintf("http://127.0.0.1:%d%s?code=cb-code&state=test-state", port, oauth.CallbackPath)
	require.Eventually(t, func() bool {
		resp, err := http.Get(callback)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("login did not finish after the callback")
	}
}

func TestLoginCmd_CallbackTimeout(t *testing.T) {
	env := newTestEnv(t)
	app := cliApp
	app.RedirectURI = fmt.Sprintf("http://localhost:%d%s", freePort(t), oauth.CallbackPath)
	env.configure(t, app)

	_, err := env.run(t, "", "login", "--no-browser", "--timeout", "50ms")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLoginCmd_Errors(t *testing.T) {
	t.Run("redirect not receivable locally", func(t *testing.T) {
		env := newTestEnv(t)
		env.configure(t, cliApp)

		_, err := env.run(t, "", "login", "--no-browser")
		assert.ErrorContains(t, err, "use --paste")
	})

	t.Run("incomplete config", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.run(t, "", "login", "--paste")
		assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	})

	t.Run("state mismatch", func(t *testing.T) {
		env := newTestEnv(t)
		env.configure(t, cliApp)

		_, err := env.run(t, "https://oauth.vk.com/blank.html#code=c&state=forged\n", "login", "--paste")
		assert.ErrorIs(t, err, oauth.ErrStateMismatch)
	})

	t.Run("access denied", func(t *testing.T) {
		env := newTestEnv(t)
		env.configure(t, cliApp)

		_, err := env.run(t, "https://oauth.vk.com/blank.html#error=access_denied&state=test-state\n", "login", "--paste")
		var cbErr *oauth.CallbackError
		require.ErrorAs(t, err, &cbErr)
		assert.Equal(t, "access_denied", cbErr.Code)
	})

	t.Run("token endpoint rejects code", func(t *testing.T) {
		env := newTestEnv(t)
		env.configure(t, cliApp)
		env.tokenEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"error":"invalid_grant","error_description":"Code is invalid or expired."}`)
		})

		_, err := env.run(t, "stale\n", "login", "--paste")
		var pe *domain.ProviderError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "invalid_grant", pe.Code)
	})
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}
