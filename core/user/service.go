package user

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/somahub/portal/core"
	"github.com/somahub/portal/core/lms"
)

var (
	// ErrNotFound is returned when a lookup by field yields no user.
	ErrNotFound = errors.New("user not found")
)

// Service fetches and normalizes LMS user data. Every list operation is
// fail-open: transport failures and upstream exceptions degrade to an empty
// slice (logged, never propagated) so a broken widget cannot take down the
// whole dashboard.
type Service struct {
	lms    lms.Caller
	logger core.Logger
}

func NewService(gateway lms.Caller, logger core.Logger) *Service {
	return &Service{lms: gateway, logger: logger}
}

// raw payload shapes

type rawUser struct {
	ID              int    `json:"id"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	FirstName       string `json:"firstname"`
	LastName        string `json:"lastname"`
	FullName        string `json:"fullname"`
	ProfileImageURL string `json:"profileimageurl"`
	LastAccess      int64  `json:"lastaccess"`
	CompanyID       int    `json:"companyid"`
}

func (r rawUser) toUser() User {
	usr := User{
		ID:              r.ID,
		Username:        r.Username,
		Email:           r.Email,
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		FullName:        r.FullName,
		ProfileImageURL: r.ProfileImageURL,
		Role:            ResolveRole(r.Username, nil),
	}
	if r.LastAccess > 0 {
		usr.LastAccess = null.Int64From(r.LastAccess)
	}
	if r.CompanyID > 0 {
		usr.CompanyID = null.IntFrom(r.CompanyID)
	}
	return usr
}

// All returns every user the ws token can see, with roles resolved from the
// reporting function where available.
func (svc *Service) All(ctx context.Context) []User {
	body, err := svc.lms.Call(ctx, "core_user_get_users", lms.Params{
		"criteria": []interface{}{
			lms.Params{"key": "email", "value": "%"},
		},
	})
	if err != nil {
		svc.logger.Warn("user.All: falling back to empty set", err)
		return []User{}
	}

	var payload struct {
		Users []rawUser `json:"users"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		svc.logger.Warn("user.All: undecodable payload", err)
		return []User{}
	}

	users := make([]User, 0, len(payload.Users))
	ids := make([]int, 0, len(payload.Users))
	for _, r := range payload.Users {
		users = append(users, r.toUser())
		ids = append(ids, r.ID)
	}

	// refine roles with server-side assignments; the username heuristic
	// applied in toUser stays as the fallback.
	assignments := svc.RolesOf(ctx, ids)
	if len(assignments) > 0 {
		for i := range users {
			users[i].Role = ResolveRole(users[i].Username, assignments[users[i].ID])
		}
	}
	return users
}

// ByField fetches users via core_user_get_users_by_field.
// field is one of "id", "username", "email", "idnumber".
func (svc *Service) ByField(ctx context.Context, field string, values []string) []User {
	body, err := svc.lms.Call(ctx, "core_user_get_users_by_field", lms.Params{
		"field":  field,
		"values": values,
	})
	if err != nil {
		svc.logger.Warn(fmt.Sprintf("user.ByField(%s): falling back to empty set", field), err)
		return []User{}
	}

	var raws []rawUser
	if err := json.Unmarshal(body, &raws); err != nil {
		svc.logger.Warn("user.ByField: undecodable payload", err)
		return []User{}
	}

	users := make([]User, 0, len(raws))
	for _, r := range raws {
		users = append(users, r.toUser())
	}
	return users
}

// GetByUsername returns the single user matching username, with the role
// refined by server-side assignments. Unlike the list fetchers it surfaces
// ErrNotFound: login needs a hard answer.
func (svc *Service) GetByUsername(ctx context.Context, username string) (User, error) {
	users := svc.ByField(ctx, "username", []string{core.CleanString(username, true /* lower */)})
	if len(users) == 0 {
		return User{}, ErrNotFound
	}
	usr := users[0]
	if assignments := svc.RolesOf(ctx, []int{usr.ID}); len(assignments) > 0 {
		usr.Role = ResolveRole(usr.Username, assignments[usr.ID])
	}
	return usr, nil
}

// RolesOf fetches raw role assignments keyed by user id.
func (svc *Service) RolesOf(ctx context.Context, userIDs []int) map[int][]RoleRecord {
	if len(userIDs) == 0 {
		return map[int][]RoleRecord{}
	}
	body, err := svc.lms.Call(ctx, "local_intelliboard_get_users_roles", lms.Params{
		"data": lms.Params{"userids": userIDs},
	})
	if err != nil {
		svc.logger.Warn("user.RolesOf: falling back to empty set", err)
		return map[int][]RoleRecord{}
	}

	var payload struct {
		Data []RoleRecord `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		// some site builds return the list bare
		var bare []RoleRecord
		if err := json.Unmarshal(body, &bare); err != nil {
			svc.logger.Warn("user.RolesOf: undecodable payload", err)
			return map[int][]RoleRecord{}
		}
		payload.Data = bare
	}

	byUser := make(map[int][]RoleRecord, len(payload.Data))
	for _, rec := range payload.Data {
		byUser[rec.UserID] = append(byUser[rec.UserID], rec)
	}
	return byUser
}

// Companies lists IOMAD companies (schools).
func (svc *Service) Companies(ctx context.Context) []Company {
	body, err := svc.lms.Call(ctx, "block_iomad_company_admin_get_companies", lms.Params{
		"criteria": lms.Params{},
	})
	if err != nil {
		svc.logger.Warn("user.Companies: falling back to empty set", err)
		return []Company{}
	}

	var payload struct {
		Companies []Company `json:"companies"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		svc.logger.Warn("user.Companies: undecodable payload", err)
		return []Company{}
	}
	if payload.Companies == nil {
		return []Company{}
	}
	return payload.Companies
}

// CompanyUsers lists the users attached to an IOMAD company.
func (svc *Service) CompanyUsers(ctx context.Context, companyID int) []User {
	body, err := svc.lms.Call(ctx, "block_iomad_company_admin_get_company_users", lms.Params{
		"companyid": companyID,
	})
	if err != nil {
		svc.logger.Warn(fmt.Sprintf("user.CompanyUsers(%d): falling back to empty set", companyID), err)
		return []User{}
	}

	var payload struct {
		Users []rawUser `json:"users"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		svc.logger.Warn("user.CompanyUsers: undecodable payload", err)
		return []User{}
	}

	users := make([]User, 0, len(payload.Users))
	for _, r := range payload.Users {
		usr := r.toUser()
		usr.CompanyID = null.IntFrom(companyID)
		users = append(users, usr)
	}
	return users
}

// CompanyLogo returns the company logo URL, or "" when unavailable.
func (svc *Service) CompanyLogo(ctx context.Context, companyID int) string {
	body, err := svc.lms.Call(ctx, "local_companylogo_get_company_logo_url", lms.Params{
		"companyid": companyID,
	})
	if err != nil {
		return ""
	}
	var payload struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.URL
}

// Update pushes profile changes upstream then returns the fresh record.
// Mutations are not fail-open: the caller must know whether the write stuck.
func (svc *Service) Update(ctx context.Context, id int, up UpdateProfile) (User, error) {
	if up.isEmpty() {
		return User{}, core.NewValidationError(errors.New("nothing to update"))
	}

	fields := lms.Params{"id": id}
	if up.FirstName != "" {
		fields["firstname"] = up.FirstName
	}
	if up.LastName != "" {
		fields["lastname"] = up.LastName
	}
	if up.Email != "" {
		fields["email"] = up.Email
	}
	if up.City != "" {
		fields["city"] = up.City
	}

	if _, err := svc.lms.Call(ctx, "core_user_update_users", lms.Params{
		"users": []interface{}{fields},
	}); err != nil {
		return User{}, errors.Wrap(err, "updating profile")
	}

	users := svc.ByField(ctx, "id", []string{strconv.Itoa(id)})
	if len(users) == 0 {
		return User{}, ErrNotFound
	}
	return users[0], nil
}
