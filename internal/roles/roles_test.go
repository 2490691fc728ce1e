package roles

import (
	"testing"

	"github.com/chemist-edu/apiserver/types"
	"github.com/stretchr/testify/assert"
)

func TestExtractRoleName(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"prefixed", "ROLE_ADMIN", "ADMIN"},
		{"unprefixed", "ADMIN", "ADMIN"},
		{"empty", "", None},
		{"whitespace", "   ", None},
		{"prefix only", "ROLE_", None},
		{"lowercase passthrough", "manager", "manager"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractRoleName(tt.raw))
		})
	}
}

func TestCurrentRoleName(t *testing.T) {
	account := types.Account{RoleName: "ROLE_MANAGER"}
	assert.Equal(t, "MANAGER", CurrentRoleName(account))

	assert.Equal(t, None, CurrentRoleName(types.Account{}))
}

func TestAllRoleNames(t *testing.T) {
	account := types.Account{
		RoleName: "ROLE_ADMIN",
		Roles:    []string{"ROLE_TEACHER", "ROLE_ADMIN", "ACCOUNTANT"},
	}

	assert.Equal(t, []string{"ADMIN", "TEACHER", "ACCOUNTANT"}, AllRoleNames(account))
}

func TestAllRoleNamesEmptyAccount(t *testing.T) {
	assert.Empty(t, AllRoleNames(types.Account{}))
}

func TestHasRole(t *testing.T) {
	account := types.Account{RoleName: "ROLE_ADMIN", Roles: []string{"ROLE_TEACHER"}}

	assert.True(t, HasRole(account, Admin))
	assert.True(t, HasRole(account, "admin"))
	assert.True(t, HasRole(account, Teacher))
	assert.False(t, HasRole(account, Accountant))
}
