// Command vkauth authorizes applications against VK and calls API methods.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/vkauth/internal/adapters/driven/config/file"
	"github.com/custodia-labs/vkauth/internal/adapters/driven/payload/jsonpayload"
	"github.com/custodia-labs/vkauth/internal/adapters/driven/transport/httpclient"
	"github.com/custodia-labs/vkauth/internal/adapters/driving/cli"
	"github.com/custodia-labs/vkauth/internal/core/domain"
	"github.com/custodia-labs/vkauth/internal/core/ports/driven"
	"github.com/custodia-labs/vkauth/internal/core/ports/driving"
	"github.com/custodia-labs/vkauth/internal/core/services"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	transport := httpclient.New()
	decoder := jsonpayload.NewDecoder()
	provider := domain.VKProvider()

	cli.SetVersion(version)
	cli.SetDependencies(&cli.Dependencies{
		OpenConfig: func(dir string) (driven.ConfigStore, error) {
			return file.NewConfigStore(dir)
		},
		OAuth: func(app domain.AppConfig) driving.OAuthService {
			return services.NewOAuthService(provider, app, transport, decoder)
		},
		API: func(app domain.AppConfig) driving.APIService {
			return services.NewAPIService(transport, decoder, "", app.APIVersion)
		},
		NewState: services.GenerateState,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
