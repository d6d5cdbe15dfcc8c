package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_HasLevel_AllPairs(t *testing.T) {
	ordered := []Role{RoleViewer, RoleTriage, RoleMember, RoleMaintainer, RoleAdmin, RoleOwner}

	for i, a := range ordered {
		for j, b := range ordered {
			want := i >= j
			assert.Equal(t, want, a.HasLevel(b), "HasLevel(%s, %s)", a, b)
		}
	}
}

func TestRole_HasLevel_UnknownRole(t *testing.T) {
	// Unknown roles rank as viewer.
	unknown := Role("superuser")
	assert.True(t, unknown.HasLevel(RoleViewer))
	assert.False(t, unknown.HasLevel(RoleTriage))
}

func TestNormalizeRole(t *testing.T) {
	assert.Equal(t, RoleMaintainer, NormalizeRole("maintainer"))
	assert.Equal(t, RoleOwner, NormalizeRole("owner"))
	assert.Equal(t, RoleViewer, NormalizeRole(""))
	assert.Equal(t, RoleViewer, NormalizeRole("gibberish"))
}
