// Package roles interprets the role strings carried on an account.
// Roles are stored in their raw prefixed form ("ROLE_ADMIN"); display
// and access-control code works with the normalized name ("ADMIN").
package roles

import (
	"strings"

	"github.com/chemist-edu/apiserver/types"
)

// rolePrefix is the constant prefix carried by raw role identifiers.
const rolePrefix = "ROLE_"

// None is the sentinel returned when an account carries no role.
const None = ""

// Well-known normalized role names.
const (
	Admin      = "ADMIN"
	Manager    = "MANAGER"
	Teacher    = "TEACHER"
	Accountant = "ACCOUNTANT"
)

// ExtractRoleName strips the ROLE_ prefix from a raw role identifier.
// Input without the prefix is returned unchanged; empty input yields
// None.
func ExtractRoleName(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return None
	}
	return strings.TrimPrefix(raw, rolePrefix)
}

// CurrentRoleName returns the account's primary role, normalized.
func CurrentRoleName(account types.Account) string {
	return ExtractRoleName(account.RoleName)
}

// AllRoleNames returns every role the account holds, normalized, with
// the primary role first and duplicates removed.
func AllRoleNames(account types.Account) []string {
	names := make([]string, 0, len(account.Roles)+1)
	seen := make(map[string]bool, len(account.Roles)+1)

	appendName := func(raw string) {
		name := ExtractRoleName(raw)
		if name == None || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	}

	appendName(account.RoleName)
	for _, raw := range account.Roles {
		appendName(raw)
	}
	return names
}

// HasRole reports whether the account holds the given normalized role.
func HasRole(account types.Account, name string) bool {
	for _, held := range AllRoleNames(account) {
		if strings.EqualFold(held, name) {
			return true
		}
	}
	return false
}
