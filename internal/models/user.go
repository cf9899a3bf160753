package models

import (
	"regexp"
	"strings"
	"time"
)

// Roles
const (
	RoleSuperAdmin = "super_admin"
	RoleNetworking = "networking_manager"
	RoleMinddate   = "minddate_manager"
	RoleCrew       = "crew_manager"
	RoleLecture    = "lecture_manager"
)

// KnownRoles lists every role an admin can grant.
func KnownRoles() []string {
	return []string{RoleSuperAdmin, RoleNetworking, RoleMinddate, RoleCrew, RoleLecture}
}

// ManagerRole returns the partner role for a category.
func ManagerRole(c Category) string {
	return string(c) + "_manager"
}

// User is a member profile
type User struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	Name              string    `json:"name"`
	Avatar            string    `json:"avatar"`
	Roles             []string  `json:"roles"`
	Phone             string    `json:"phone,omitempty"`
	Birthdate         string    `json:"birthdate,omitempty"` // YYMMDD
	Interests         []string  `json:"interests,omitempty"`
	IsProfileComplete bool      `json:"is_profile_complete"`
	JoinDate          time.Time `json:"join_date"`
}

// HasRole reports whether the user holds role.
func (u *User) HasRole(role string) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user is a super admin.
func (u *User) IsAdmin() bool {
	return u.HasRole(RoleSuperAdmin)
}

// IsPartner reports whether the user may host content in any category.
func (u *User) IsPartner() bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r == RoleSuperAdmin || strings.HasSuffix(r, "_manager") {
			return true
		}
	}
	return false
}

// CanHost reports whether the user may create items in category c.
func (u *User) CanHost(c Category) bool {
	return u.IsAdmin() || u.HasRole(ManagerRole(c))
}

// ProfileUpdate is the request body for a profile change. Nil fields are left untouched.
type ProfileUpdate struct {
	Name              *string  `json:"name,omitempty"`
	Avatar            *string  `json:"avatar,omitempty"`
	Phone             *string  `json:"phone,omitempty"`
	Birthdate         *string  `json:"birthdate,omitempty"`
	Interests         []string `json:"interests,omitempty"`
	IsProfileComplete *bool    `json:"is_profile_complete,omitempty"`
}

var (
	phoneDashed = regexp.MustCompile(`^010-\d{4}-\d{4}$`)
	phonePlain  = regexp.MustCompile(`^010\d{8}$`)
	birthdateRe = regexp.MustCompile(`^\d{6}$`)
)

// ValidPhone accepts Korean mobile numbers as 010-XXXX-XXXX or 010XXXXXXXX.
func ValidPhone(s string) bool {
	return phoneDashed.MatchString(s) || phonePlain.MatchString(s)
}

// ValidBirthdate accepts six digit YYMMDD dates.
func ValidBirthdate(s string) bool {
	return birthdateRe.MatchString(s)
}

// Validate checks the fields that are being changed.
func (p *ProfileUpdate) Validate() string {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return "name must not be empty"
	}
	if p.Phone != nil && *p.Phone != "" && !ValidPhone(*p.Phone) {
		return "phone must look like 010-1234-5678"
	}
	if p.Birthdate != nil && *p.Birthdate != "" && !ValidBirthdate(*p.Birthdate) {
		return "birthdate must be 6 digits (YYMMDD)"
	}
	return ""
}
