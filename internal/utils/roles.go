package utils

import "strings"

// roleSeparators are stripped before comparing role labels, so that
// "super_admin", "Super Admin" and "super-admin" all normalize the same way.
var roleSeparators = strings.NewReplacer("_", "", "-", "", " ", "")

// IsSuperRole reports whether a free-form role label denotes the elevated
// admin role. Any label that case- and separator-insensitively equals
// "superadmin" counts; every other value is the base admin capability.
func IsSuperRole(role string) bool {
	return roleSeparators.Replace(strings.ToLower(role)) == "superadmin"
}

// NormalizeRole collapses a free-form role label onto the closed two-level
// set used at the engine boundary.
func NormalizeRole(role string) string {
	if IsSuperRole(role) {
		return "superadmin"
	}
	return "admin"
}
