package methods

import "github.com/custodia-labs/vkauth/internal/api"

// UsersGet is a users.get call.
type UsersGet struct{ *api.Request }

// NewUsersGet starts a users.get call for the token owner.
func NewUsersGet() UsersGet {
	return UsersGet{UsersGetSpec.New()}
}

// UserIDs selects users by id or screen name.
func (r UsersGet) UserIDs(ids ...string) UsersGet {
	r.Set("user_ids", ids)
	return r
}

// Fields requests extra profile fields.
func (r UsersGet) Fields(fields ...string) UsersGet {
	r.Set("fields", fields)
	return r
}

// NameCase picks the grammatical case of returned names.
func (r UsersGet) NameCase(c string) UsersGet {
	r.Set("name_case", c)
	return r
}

// FriendsGet is a friends.get call.
type FriendsGet struct{ *api.Request }

// NewFriendsGet starts a friends.get call.
func NewFriendsGet() FriendsGet {
	return FriendsGet{FriendsGetSpec.New()}
}

// UserID lists another user's friends instead of the token owner's.
func (r FriendsGet) UserID(id uint64) FriendsGet {
	r.Set("user_id", id)
	return r
}

// Order is "hints" unless changed.
func (r FriendsGet) Order(order string) FriendsGet {
	r.Set("order", order)
	return r
}

// Count limits the number of friends returned.
func (r FriendsGet) Count(n int) FriendsGet {
	r.Set("count", n)
	return r
}

// Offset skips the first n friends.
func (r FriendsGet) Offset(n int) FriendsGet {
	r.Set("offset", n)
	return r
}

// Fields requests extra profile fields for each friend.
func (r FriendsGet) Fields(fields ...string) FriendsGet {
	r.Set("fields", fields)
	return r
}

// WallGet is a wall.get call.
type WallGet struct{ *api.Request }

// NewWallGet starts a wall.get call.
func NewWallGet() WallGet {
	return WallGet{WallGetSpec.New()}
}

// OwnerID selects the wall; negative ids are communities.
func (r WallGet) OwnerID(id int64) WallGet {
	r.Set("owner_id", id)
	return r
}

// Domain selects the wall by screen name.
func (r WallGet) Domain(screenName string) WallGet {
	r.Set("domain", screenName)
	return r
}

// Offset skips the first n posts.
func (r WallGet) Offset(n int) WallGet {
	r.Set("offset", n)
	return r
}

// Count limits the number of posts returned.
func (r WallGet) Count(n int) WallGet {
	r.Set("count", n)
	return r
}

// Filter narrows posts by author, e.g. "owner" or "others".
func (r WallGet) Filter(filter string) WallGet {
	r.Set("filter", filter)
	return r
}

// Extended adds profiles and groups to the response.
func (r WallGet) Extended(on bool) WallGet {
	r.Set("extended", on)
	return r
}

// WallPost is a wall.post call.
type WallPost struct{ *api.Request }

// NewWallPost starts a wall.post call with the post text.
func NewWallPost(message string) WallPost {
	return WallPost{WallPostSpec.New(message)}
}

// OwnerID posts to another wall; negative ids are communities.
func (r WallPost) OwnerID(id int64) WallPost {
	r.Set("owner_id", id)
	return r
}

// FriendsOnly hides the post from everyone but friends.
func (r WallPost) FriendsOnly(on bool) WallPost {
	r.Set("friends_only", on)
	return r
}

// FromGroup publishes a community post on behalf of the community.
func (r WallPost) FromGroup(on bool) WallPost {
	r.Set("from_group", on)
	return r
}

// Attachments adds media by "<type><owner_id>_<media_id>" id.
func (r WallPost) Attachments(ids ...string) WallPost {
	r.Set("attachments", ids)
	return r
}

// StatusGet is a status.get call.
type StatusGet struct{ *api.Request }

// NewStatusGet starts a status.get call for the token owner.
func NewStatusGet() StatusGet {
	return StatusGet{StatusGetSpec.New()}
}

// UserID reads another user's status.
func (r StatusGet) UserID(id int64) StatusGet {
	r.Set("user_id", id)
	return r
}

// GroupID reads a community's status.
func (r StatusGet) GroupID(id int64) StatusGet {
	r.Set("group_id", id)
	return r
}

// StatusSet is a status.set call.
type StatusSet struct{ *api.Request }

// NewStatusSet starts a status.set call with the new status text.
func NewStatusSet(text string) StatusSet {
	return StatusSet{StatusSetSpec.New(text)}
}

// GroupID sets a community's status instead of the user's.
func (r StatusSet) GroupID(id int64) StatusSet {
	r.Set("group_id", id)
	return r
}

// AccountGetAppPermissions is an account.getAppPermissions call. Its
// response is the permission mask granted to the application.
type AccountGetAppPermissions struct{ *api.Request }

// NewAccountGetAppPermissions starts an account.getAppPermissions call
// for the given user.
func NewAccountGetAppPermissions(userID uint64) AccountGetAppPermissions {
	return AccountGetAppPermissions{AccountGetAppPermissionsSpec.New(userID)}
}
