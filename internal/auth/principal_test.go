package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrincipal_IsAdmin(t *testing.T) {
	assert.False(t, Principal{UserID: 1, Roles: []string{"ROLE_USER"}}.IsAdmin())
	assert.True(t, Principal{UserID: 1, Roles: []string{"ROLE_USER", "ROLE_ADMIN"}}.IsAdmin())
	assert.False(t, Principal{UserID: 1}.IsAdmin())
}

func TestPrincipal_CanAccess(t *testing.T) {
	tests := []struct {
		name      string
		principal Principal
		ownerID   uint64
		want      bool
	}{
		{
			name:      "owner can access own entity",
			principal: Principal{UserID: 1, Roles: []string{"ROLE_USER"}},
			ownerID:   1,
			want:      true,
		},
		{
			name:      "regular user cannot access foreign entity",
			principal: Principal{UserID: 1, Roles: []string{"ROLE_USER"}},
			ownerID:   2,
			want:      false,
		},
		{
			name:      "admin can access any entity",
			principal: Principal{UserID: 1, Roles: []string{"ROLE_USER", "ROLE_ADMIN"}},
			ownerID:   2,
			want:      true,
		},
		{
			name:      "no roles, still owner",
			principal: Principal{UserID: 3},
			ownerID:   3,
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.principal.CanAccess(tt.ownerID))
		})
	}
}
