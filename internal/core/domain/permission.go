package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Permission is a single grantable VK access scope.
// Every regular permission occupies exactly one bit of a Permissions mask.
type Permission int32

// Grantable permissions, valued as the provider defines them.
const (
	PermissionNotify        Permission = 1
	PermissionFriends       Permission = 2
	PermissionPhotos        Permission = 4
	PermissionAudio         Permission = 8
	PermissionVideo         Permission = 16
	PermissionOffers        Permission = 32
	PermissionQuestions     Permission = 64
	PermissionPages         Permission = 128
	PermissionMenu          Permission = 256
	PermissionStatus        Permission = 1024
	PermissionNotes         Permission = 2048
	PermissionMessages      Permission = 4096
	PermissionWall          Permission = 8192
	PermissionAds           Permission = 32768
	PermissionDocs          Permission = 131072
	PermissionGroups        Permission = 262144
	PermissionNotifications Permission = 524288
	PermissionStats         Permission = 1048576
	PermissionEmail         Permission = 4194304
)

// Sentinel permissions. They carry a name but no bit, so they never appear
// in a Permissions mask.
const (
	// PermissionOffline requests a token that does not expire.
	PermissionOffline Permission = 0
	// PermissionNoHTTPS allows API calls over plain HTTP.
	PermissionNoHTTPS Permission = -1
)

// MaskAll is the union of every regular permission bit.
const MaskAll int32 = 0x5ebdff

// permissionOrder is the fixed enumeration order used for every
// set-to-list conversion.
var permissionOrder = [...]Permission{
	PermissionNotify, PermissionFriends, PermissionPhotos, PermissionAudio,
	PermissionVideo, PermissionDocs, PermissionNotes, PermissionPages, PermissionMenu,
	PermissionStatus, PermissionOffers, PermissionQuestions, PermissionWall,
	PermissionGroups, PermissionMessages, PermissionEmail, PermissionNotifications,
	PermissionStats, PermissionAds,
}

var permissionNames = map[Permission]string{
	PermissionNotify:        "notify",
	PermissionFriends:       "friends",
	PermissionPhotos:        "photos",
	PermissionAudio:         "audio",
	PermissionVideo:         "video",
	PermissionDocs:          "docs",
	PermissionNotes:         "notes",
	PermissionPages:         "pages",
	PermissionMenu:          "menu",
	PermissionStatus:        "status",
	PermissionOffers:        "offers",
	PermissionQuestions:     "questions",
	PermissionWall:          "wall",
	PermissionGroups:        "groups",
	PermissionMessages:      "messages",
	PermissionEmail:         "email",
	PermissionNotifications: "notifications",
	PermissionStats:         "stats",
	PermissionAds:           "ads",
	PermissionOffline:       "offline",
	PermissionNoHTTPS:       "nohttps",
}

// Variants returns every regular permission in enumeration order.
// The returned slice is a copy.
func Variants() []Permission {
	out := make([]Permission, len(permissionOrder))
	copy(out, permissionOrder[:])
	return out
}

// Mask returns the raw value of the permission.
func (p Permission) Mask() int32 {
	return int32(p)
}

// IsSentinel reports whether p is offline or nohttps.
func (p Permission) IsSentinel() bool {
	return p == PermissionOffline || p == PermissionNoHTTPS
}

// String returns the canonical lowercase name.
func (p Permission) String() string {
	if name, ok := permissionNames[p]; ok {
		return name
	}
	return fmt.Sprintf("permission(%d)", int32(p))
}

// ParsePermission resolves a canonical name, case-insensitively.
func ParsePermission(name string) (Permission, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for p, n := range permissionNames {
		if n == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPermission, name)
}

// Permissions is a set of permissions stored as a bitmask.
// Bits outside MaskAll are dropped on construction.
type Permissions int32

// PermissionsFromInt builds a set from a raw mask, dropping unknown bits.
func PermissionsFromInt(n int32) Permissions {
	return Permissions(n & MaskAll)
}

// PermissionsFrom builds a set holding a single permission.
// A sentinel yields the empty set.
func PermissionsFrom(p Permission) Permissions {
	return PermissionsOf(p)
}

// PermissionsOf folds permissions into one set. Sentinels contribute no bits;
// in particular nohttps (-1) is never read as "every bit".
func PermissionsOf(perms ...Permission) Permissions {
	var n int32
	for _, p := range perms {
		if p.IsSentinel() {
			continue
		}
		n |= int32(p)
	}
	return PermissionsFromInt(n)
}

// FoldPermissions ORs raw masks into one set.
func FoldPermissions(masks ...int32) Permissions {
	var n int32
	for _, m := range masks {
		n |= m
	}
	return PermissionsFromInt(n)
}

// Union returns the union of the given sets.
func Union(sets ...Permissions) Permissions {
	var n int32
	for _, s := range sets {
		n |= int32(s)
	}
	return PermissionsFromInt(n)
}

// ParsePermissions parses a comma-separated list of permission names.
// Sentinel names are accepted and contribute no bits.
func ParsePermissions(s string) (Permissions, error) {
	var perms []Permission
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		p, err := ParsePermission(part)
		if err != nil {
			return 0, err
		}
		perms = append(perms, p)
	}
	return PermissionsOf(perms...), nil
}

// Int returns the raw mask.
func (s Permissions) Int() int32 {
	return int32(s)
}

// Has reports whether the regular permission p is in the set.
// Sentinels are never members.
func (s Permissions) Has(p Permission) bool {
	if p.IsSentinel() {
		return false
	}
	return int32(s)&int32(p) != 0
}

// List returns the members in enumeration order.
func (s Permissions) List() []Permission {
	var out []Permission
	for _, p := range permissionOrder {
		if s.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

// Names returns the canonical names of the members in enumeration order.
func (s Permissions) Names() []string {
	var out []string
	for _, p := range permissionOrder {
		if s.Has(p) {
			out = append(out, p.String())
		}
	}
	return out
}

// String returns the comma-joined member names, as sent in the scope parameter.
func (s Permissions) String() string {
	return strings.Join(s.Names(), ",")
}

// MarshalJSON encodes the set as its integer mask.
func (s Permissions) MarshalJSON() ([]byte, error) {
	return json.Marshal(int32(s))
}

// UnmarshalJSON decodes an integer mask, dropping unknown bits.
func (s *Permissions) UnmarshalJSON(data []byte) error {
	var n int32
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = PermissionsFromInt(n)
	return nil
}

// PermissionRequirer is implemented by anything that declares the
// permissions it needs, such as an API request.
type PermissionRequirer interface {
	Permissions() Permissions
}
