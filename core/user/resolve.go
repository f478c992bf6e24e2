package user

import "strings"

// shortNameRoles maps LMS role shortnames onto portal roles, in descending
// authority. Matching is case-insensitive; the first assignment that hits
// the table wins.
var shortNameRoles = map[string]Role{
	"manager":                  RoleAdmin,
	"admin":                    RoleAdmin,
	"clusteradmin":             RoleClusterAdmin,
	"clustermanager":           RoleClusterAdmin,
	"companymanager":           RolePrincipal,
	"principal":                RolePrincipal,
	"companydepartmentmanager": RoleSchoolAdmin,
	"schooladmin":              RoleSchoolAdmin,
	"teachers":                 RoleTrainer,
	"trainer":                  RoleTrainer,
	"editingteacher":           RoleTeacher,
	"teacher":                  RoleTeacher,
	"student":                  RoleTeacher,
}

// usernameHints are layered fallback heuristics applied when no role
// assignment matched; first substring hit wins.
var usernameHints = []struct {
	substr string
	role   Role
}{
	{"admin", RoleAdmin},
	{"manager", RoleAdmin},
	{"trainer", RoleTrainer},
	{"instructor", RoleTrainer},
	{"teacher", RoleTeacher},
	{"educator", RoleTeacher},
}

// ResolveRole collapses a raw user record onto a single portal role.
// It is pure: same inputs, same answer, no I/O.
func ResolveRole(username string, records []RoleRecord) Role {
	for _, rec := range records {
		if role, ok := shortNameRoles[strings.ToLower(strings.TrimSpace(rec.ShortName))]; ok {
			return role
		}
	}

	uname := strings.ToLower(username)
	for _, hint := range usernameHints {
		if strings.Contains(uname, hint.substr) {
			return hint.role
		}
	}
	return RoleTeacher
}
