package domain

import (
	"encoding/json"
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermission_SingleBit(t *testing.T) {
	seen := int32(0)
	for _, p := range Variants() {
		t.Run(p.String(), func(t *testing.T) {
			assert.Equal(t, 1, bits.OnesCount32(uint32(p.Mask())), "exactly one bit set")
			assert.Zero(t, seen&p.Mask(), "bit shared with another permission")
		})
		seen |= p.Mask()
	}
	assert.Equal(t, MaskAll, seen, "union of variants is MaskAll")
}

func TestPermission_Sentinels(t *testing.T) {
	assert.Equal(t, int32(0), PermissionOffline.Mask())
	assert.Equal(t, int32(-1), PermissionNoHTTPS.Mask())
	assert.True(t, PermissionOffline.IsSentinel())
	assert.True(t, PermissionNoHTTPS.IsSentinel())
	assert.False(t, PermissionWall.IsSentinel())

	assert.NotContains(t, Variants(), PermissionOffline)
	assert.NotContains(t, Variants(), PermissionNoHTTPS)

	assert.Equal(t, "offline", PermissionOffline.String())
	assert.Equal(t, "nohttps", PermissionNoHTTPS.String())
}

func TestPermission_VariantsOrder(t *testing.T) {
	names := make([]string, 0, len(Variants()))
	for _, p := range Variants() {
		names = append(names, p.String())
	}

	assert.Equal(t, []string{
		"notify", "friends", "photos", "audio", "video", "docs", "notes", "pages", "menu",
		"status", "offers", "questions", "wall", "groups", "messages", "email",
		"notifications", "stats", "ads",
	}, names)
}

func TestVariants_ReturnsCopy(t *testing.T) {
	v := Variants()
	v[0] = PermissionAds

	assert.Equal(t, PermissionNotify, Variants()[0])
}

func TestParsePermission(t *testing.T) {
	tests := []struct {
		input    string
		expected Permission
	}{
		{"friends", PermissionFriends},
		{"  Wall ", PermissionWall},
		{"EMAIL", PermissionEmail},
		{"offline", PermissionOffline},
		{"nohttps", PermissionNoHTTPS},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := ParsePermission(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p)
		})
	}

	t.Run("unknown name", func(t *testing.T) {
		_, err := ParsePermission("telepathy")
		assert.ErrorIs(t, err, ErrUnknownPermission)
	})
}

func TestPermissions_MasksOutOfRangeBits(t *testing.T) {
	assert.Equal(t, MaskAll, PermissionsFromInt(-1).Int())
	assert.Equal(t, int32(0), PermissionsFromInt(512).Int(), "bit 9 is not a permission")
	assert.Equal(t, int32(2), PermissionsFromInt(2|512).Int())
	assert.Equal(t, int32(0), PermissionsFrom(PermissionNoHTTPS).Int(), "sentinel grants nothing")
	assert.Equal(t, PermissionsFrom(PermissionWall), PermissionsOf(PermissionWall, PermissionNoHTTPS))
}

func TestPermissions_Constructors(t *testing.T) {
	friendsWall := int32(PermissionFriends) | int32(PermissionWall)

	assert.Equal(t, friendsWall, PermissionsOf(PermissionFriends, PermissionWall).Int())
	assert.Equal(t, friendsWall, FoldPermissions(int32(PermissionFriends), int32(PermissionWall)).Int())
	assert.Equal(t, friendsWall, Union(PermissionsFrom(PermissionFriends), PermissionsFrom(PermissionWall)).Int())
	assert.Equal(t, Permissions(0), PermissionsOf())
	assert.Equal(t, Permissions(0), PermissionsOf(PermissionOffline))
}

func TestPermissions_Conversions(t *testing.T) {
	set := PermissionsOf(PermissionWall, PermissionFriends, PermissionEmail)

	assert.Equal(t, []Permission{PermissionFriends, PermissionWall, PermissionEmail}, set.List())
	assert.Equal(t, []string{"friends", "wall", "email"}, set.Names())
	assert.Equal(t, "friends,wall,email", set.String())
	assert.True(t, set.Has(PermissionWall))
	assert.False(t, set.Has(PermissionPhotos))
	assert.False(t, set.Has(PermissionOffline))
	assert.Equal(t, "", Permissions(0).String())
}

func TestPermissions_RoundTrips(t *testing.T) {
	// Walks every subset of MaskAll, from the empty set up to MaskAll itself.
	count := 0
	for m := int32(0); ; m = (m - MaskAll) & MaskAll {
		count++
		s := PermissionsFromInt(m)

		if got := PermissionsFromInt(s.Int()).Int(); got != m {
			t.Fatalf("int round trip of %#x gave %#x", m, got)
		}
		if got := PermissionsOf(s.List()...); got != s {
			t.Fatalf("list round trip of %#x gave %#x", m, got.Int())
		}
		parsed, err := ParsePermissions(s.String())
		if err != nil || parsed != s {
			t.Fatalf("name round trip of %#x gave %#x, %v", m, parsed.Int(), err)
		}

		if m == MaskAll {
			break
		}
	}
	assert.Equal(t, 1<<bits.OnesCount32(uint32(MaskAll)), count)
}

func TestParsePermissions(t *testing.T) {
	t.Run("ignores blanks and sentinels", func(t *testing.T) {
		p, err := ParsePermissions("friends, ,offline,wall")
		require.NoError(t, err)
		assert.Equal(t, PermissionsOf(PermissionFriends, PermissionWall), p)
	})

	t.Run("empty string", func(t *testing.T) {
		p, err := ParsePermissions("")
		require.NoError(t, err)
		assert.Equal(t, Permissions(0), p)
	})

	t.Run("unknown name fails", func(t *testing.T) {
		_, err := ParsePermissions("friends,mind")
		assert.ErrorIs(t, err, ErrUnknownPermission)
	})
}

func TestPermissions_JSON(t *testing.T) {
	set := PermissionsOf(PermissionFriends, PermissionWall)

	data, err := json.Marshal(set)
	require.NoError(t, err)
	assert.Equal(t, "8194", string(data))

	var decoded Permissions
	require.NoError(t, json.Unmarshal([]byte("-1"), &decoded))
	assert.Equal(t, Permissions(MaskAll), decoded)
}
