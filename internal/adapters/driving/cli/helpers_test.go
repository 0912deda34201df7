package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vkauth/internal/adapters/driven/config/file"
	"github.com/custodia-labs/vkauth/internal/adapters/driven/payload/jsonpayload"
	"github.com/custodia-labs/vkauth/internal/adapters/driven/transport/httpclient"
	"github.com/custodia-labs/vkauth/internal/core/domain"
	"github.com/custodia-labs/vkauth/internal/core/ports/driven"
	"github.com/custodia-labs/vkauth/internal/core/ports/driving"
	"github.com/custodia-labs/vkauth/internal/core/services"
)

// testEnv wires the commands to real services backed by fake endpoints and
// a config directory of its own.
type testEnv struct {
	dir      string
	provider domain.Provider
	apiURL   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv(file.EnvClientID, "")
	t.Setenv(file.EnvClientSecret, "")
	t.Setenv(EnvAccessToken, "")

	env := &testEnv{dir: t.TempDir(), provider: domain.VKProvider()}

	old := deps
	SetDependencies(&Dependencies{
		OpenConfig: func(dir string) (driven.ConfigStore, error) {
			return file.NewConfigStore(dir)
		},
		OAuth: func(app domain.AppConfig) driving.OAuthService {
			return services.NewOAuthService(env.provider, app, httpclient.New(), jsonpayload.NewDecoder())
		},
		API: func(app domain.AppConfig) driving.APIService {
			return services.NewAPIService(httpclient.New(), jsonpayload.NewDecoder(), env.apiURL, app.APIVersion)
		},
		NewState: func() (string, error) { return "test-state", nil },
	})
	t.Cleanup(func() { deps = old })
	return env
}

// configure writes an app registration to the env's config directory.
func (e *testEnv) configure(t *testing.T, app domain.AppConfig) {
	t.Helper()
	store, err := file.NewConfigStore(e.dir)
	require.NoError(t, err)
	require.NoError(t, store.Save(app))
}

// tokenEndpoint points the provider's token URL at handler.
func (e *testEnv) tokenEndpoint(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	e.provider.TokenURL = server.URL + "/access_token"
}

// apiEndpoint points the method API root at handler.
func (e *testEnv) apiEndpoint(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	e.apiURL = server.URL + "/method/"
}

// run executes the root command with args, the env's config directory and
// stdin, returning everything written to stdout and stderr.
func (e *testEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	return execute(t, stdin, append([]string{"--config-dir", e.dir}, args...)...)
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag to its default, since cobra keeps flag
// values in package variables across executions.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}
