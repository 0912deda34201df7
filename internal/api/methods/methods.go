// Package methods declares the VK API methods known to vkauth.
//
// Each method is an [api.Spec] plus a thin typed wrapper whose setters
// chain and return the wrapper.
package methods

import (
	"net/http"
	"sort"

	"github.com/custodia-labs/vkauth/internal/api"
	"github.com/custodia-labs/vkauth/internal/core/domain"
)

// Specs of the supported methods.
var (
	UsersGetSpec = &api.Spec{
		Method: "users.get",
		Fields: []api.Field{
			api.OptionalZero[[]string]("user_ids", api.EncodeList),
			api.OptionalZero[[]string]("fields", api.EncodeList),
			api.OptionalZero[string]("name_case", api.EncodeRaw),
		},
		Response: func() any { return new([]User) },
	}

	FriendsGetSpec = &api.Spec{
		Method:      "friends.get",
		Permissions: domain.PermissionsFrom(domain.PermissionFriends),
		Fields: []api.Field{
			api.OptionalZero[*uint64]("user_id", api.EncodeOptional),
			api.Optional("order", "hints", api.EncodeRaw),
			api.OptionalZero[*int]("count", api.EncodeOptional),
			api.OptionalZero[*int]("offset", api.EncodeOptional),
			api.OptionalZero[[]string]("fields", api.EncodeList),
		},
		Response: func() any { return new(FriendList) },
	}

	WallGetSpec = &api.Spec{
		Method:      "wall.get",
		Permissions: domain.PermissionsFrom(domain.PermissionWall),
		Fields: []api.Field{
			api.OptionalZero[*int64]("owner_id", api.EncodeOptional),
			api.OptionalZero[string]("domain", api.EncodeRaw),
			api.OptionalZero[*int]("offset", api.EncodeOptional),
			api.OptionalZero[*int]("count", api.EncodeOptional),
			api.Optional("filter", "all", api.EncodeRaw),
			api.OptionalZero[bool]("extended", api.EncodeBool),
		},
		Response: func() any { return new(WallPage) },
	}

	WallPostSpec = &api.Spec{
		Method:      "wall.post",
		HTTPMethod:  http.MethodPost,
		Permissions: domain.PermissionsFrom(domain.PermissionWall),
		Fields: []api.Field{
			api.Required[string]("message", api.EncodeRaw),
			api.OptionalZero[*int64]("owner_id", api.EncodeOptional),
			api.OptionalZero[bool]("friends_only", api.EncodeBool),
			api.OptionalZero[bool]("from_group", api.EncodeBool),
			api.OptionalZero[[]string]("attachments", api.EncodeList),
		},
		Response: func() any { return new(PostResult) },
	}

	StatusGetSpec = &api.Spec{
		Method:      "status.get",
		Permissions: domain.PermissionsFrom(domain.PermissionStatus),
		Fields: []api.Field{
			api.OptionalZero[*int64]("user_id", api.EncodeOptional),
			api.OptionalZero[*int64]("group_id", api.EncodeOptional),
		},
		Response: func() any { return new(Status) },
	}

	StatusSetSpec = &api.Spec{
		Method:      "status.set",
		HTTPMethod:  http.MethodPost,
		Permissions: domain.PermissionsFrom(domain.PermissionStatus),
		Fields: []api.Field{
			api.Required[string]("text", api.EncodeRaw),
			api.OptionalZero[*int64]("group_id", api.EncodeOptional),
		},
		Response: func() any { return new(int) },
	}

	AccountGetAppPermissionsSpec = &api.Spec{
		Method: "account.getAppPermissions",
		Fields: []api.Field{
			api.Required[uint64]("user_id", api.EncodeString),
		},
		Response: func() any { return new(domain.Permissions) },
	}
)

var registry = map[string]*api.Spec{}

func init() {
	for _, s := range []*api.Spec{
		UsersGetSpec, FriendsGetSpec, WallGetSpec, WallPostSpec,
		StatusGetSpec, StatusSetSpec, AccountGetAppPermissionsSpec,
	} {
		registry[s.Method] = s
	}
}

// Lookup returns the spec of a known method.
func Lookup(name string) (*api.Spec, bool) {
	s, ok := registry[name]
	return s, ok
}

// Names returns the known method names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
