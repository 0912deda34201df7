package methods

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vkauth/internal/api"
	"github.com/custodia-labs/vkauth/internal/core/domain"
)

func TestUsersGet_Query(t *testing.T) {
	req := NewUsersGet().UserIDs("1", "durov").Fields("bdate", "city")

	require.NoError(t, req.Err())
	assert.Equal(t, "user_ids=1%2Cdurov&fields=bdate%2Ccity", req.Query())
	assert.Equal(t, domain.Permissions(0), req.Permissions())
}

func TestUsersGet_EmptyQuery(t *testing.T) {
	assert.Equal(t, "", NewUsersGet().Query())
}

func TestFriendsGet_Query(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		assert.Equal(t, "order=hints", NewFriendsGet().Query())
	})

	t.Run("all fields", func(t *testing.T) {
		req := NewFriendsGet().UserID(42).Order("name").Count(10).Offset(20).Fields("nickname")
		require.NoError(t, req.Err())
		assert.Equal(t, "user_id=42&order=name&count=10&offset=20&fields=nickname", req.Query())
	})

	t.Run("requires friends", func(t *testing.T) {
		assert.True(t, NewFriendsGet().Permissions().Has(domain.PermissionFriends))
	})
}

func TestWallGet_Query(t *testing.T) {
	req := NewWallGet().OwnerID(-1).Count(5).Extended(true)

	require.NoError(t, req.Err())
	assert.Equal(t, "owner_id=-1&count=5&filter=all&extended=1", req.Query())
}

func TestWallPost(t *testing.T) {
	req := NewWallPost("hello").FriendsOnly(true).Attachments("photo1_2", "photo1_3")

	require.NoError(t, req.Err())
	assert.Equal(t, http.MethodPost, req.HTTPMethod())
	assert.Equal(t, "message=hello&friends_only=1&from_group=0&attachments=photo1_2%2Cphoto1_3", req.Query())
	assert.IsType(t, &PostResult{}, req.NewResponse())
}

func TestStatus(t *testing.T) {
	get := NewStatusGet().UserID(1)
	set := NewStatusSet("away").GroupID(7)

	assert.Equal(t, "user_id=1", get.Query())
	assert.Equal(t, "text=away&group_id=7", set.Query())
	assert.Equal(t, domain.PermissionsFrom(domain.PermissionStatus), api.PermissionsFor(get.Spec(), set.Spec()))
}

func TestAccountGetAppPermissions(t *testing.T) {
	req := NewAccountGetAppPermissions(66748)

	require.NoError(t, req.Err())
	assert.Equal(t, "user_id=66748", req.Query())
	assert.IsType(t, new(domain.Permissions), req.NewResponse())
}

func TestWrapperSharesRequest(t *testing.T) {
	req := NewFriendsGet()
	req.Count(3)

	assert.Contains(t, req.Query(), "count=3")
}

func TestLookup(t *testing.T) {
	spec, ok := Lookup("wall.post")
	require.True(t, ok)
	assert.Same(t, WallPostSpec, spec)

	_, ok = Lookup("messages.send")
	assert.False(t, ok)
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{
		"account.getAppPermissions",
		"friends.get",
		"status.get",
		"status.set",
		"users.get",
		"wall.get",
		"wall.post",
	}, Names())
}
