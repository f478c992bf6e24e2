package user

import (
	"strings"

	"github.com/volatiletech/null/v8"

	"github.com/somahub/portal/core"
)

// Role is an application role. The LMS role model is richer and less
// consistent than the portal's; every user is collapsed onto exactly one of
// these.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleSchoolAdmin  Role = "school_admin"
	RolePrincipal    Role = "principal"
	RoleClusterAdmin Role = "cluster_admin"
	RoleTrainer      Role = "trainer"
	RoleTeacher      Role = "teacher"
)

var (
	AllRoles = []Role{RoleAdmin, RoleSchoolAdmin, RolePrincipal, RoleClusterAdmin, RoleTrainer, RoleTeacher}

	rolePriorities = map[Role]int{
		RoleAdmin:        60,
		RoleClusterAdmin: 50,
		RolePrincipal:    40,
		RoleSchoolAdmin:  30,
		RoleTrainer:      20,
		RoleTeacher:      10,
	}
)

func RolePriority(role Role) int {
	return rolePriorities[role]
}

type (
	// User is the portal shape of an LMS user record. LastAccess stays in
	// raw epoch seconds; converting to wall time is a presentation concern.
	User struct {
		ID              int        `json:"id"`
		Username        string     `json:"username"`
		Email           string     `json:"email"`
		FirstName       string     `json:"firstname"`
		LastName        string     `json:"lastname"`
		FullName        string     `json:"fullname"`
		ProfileImageURL string     `json:"profileimageurl,omitempty"`
		LastAccess      null.Int64 `json:"lastaccess,omitempty"`
		Role            Role       `json:"role"`
		CompanyID       null.Int   `json:"companyid,omitempty"`
	}

	// RoleRecord is a raw role assignment as reported by the LMS
	// (local_intelliboard_get_users_roles).
	RoleRecord struct {
		UserID    int    `json:"userid"`
		ShortName string `json:"shortname"`
	}

	// Company is an IOMAD company (a school, in portal terms).
	Company struct {
		ID        int    `json:"id"`
		Name      string `json:"name"`
		ShortName string `json:"shortname"`
		City      string `json:"city,omitempty"`
		LogoURL   string `json:"logourl,omitempty"`
	}
)

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleClusterAdmin
}

func (u *User) IsManager() bool {
	return u.IsAdmin() || u.Role == RolePrincipal || u.Role == RoleSchoolAdmin
}

// DisplayName falls back from fullname to "first last" to username.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	return u.Username
}

// Validator is the slice of *validator.Validate the models need;
// declared here so validation stays mockable.
type Validator interface {
	Struct(s interface{}) error
}

// UpdateProfile defines what information may be provided to modify the
// logged-in user's LMS profile.
type UpdateProfile struct {
	FirstName string `json:"firstname" validate:"omitempty,min=2"`
	LastName  string `json:"lastname" validate:"omitempty,min=2"`
	Email     string `json:"email" validate:"omitempty,email"`
	City      string `json:"city"`
}

func (up *UpdateProfile) Validate(validate Validator) error {
	up.FirstName = core.CleanString(up.FirstName)
	up.LastName = core.CleanString(up.LastName)
	up.Email = core.CleanString(up.Email, true /* lower */)
	up.City = core.CleanString(up.City)
	return validate.Struct(up)
}

func (up *UpdateProfile) isEmpty() bool {
	return up.FirstName == "" && up.LastName == "" && up.Email == "" && up.City == ""
}
