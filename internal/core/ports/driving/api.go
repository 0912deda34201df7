package driving

import (
	"context"

	"github.com/custodia-labs/vkauth/internal/api"
	"github.com/custodia-labs/vkauth/internal/core/domain"
)

// APIService executes API method calls with an access token.
type APIService interface {
	// Call sends req and decodes the "response" member into req.NewResponse(),
	// which is returned.
	Call(ctx context.Context, token *domain.AccessToken, req *api.Request) (any, error)
}
