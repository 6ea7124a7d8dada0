package models

import (
	"time"

	"github.com/FACorreiaa/go-volunteerhub/internal/app/roles"
)

// UserStatus is the account status reported by the backend.
type UserStatus string

const (
	StatusActive   UserStatus = "ACTIVE"
	StatusPending  UserStatus = "PENDING"
	StatusInactive UserStatus = "INACTIVE"
)

// VolunteerProfile is the role-specific sub-profile of a volunteer.
type VolunteerProfile struct {
	Name   string   `json:"name"`
	Phone  string   `json:"phone,omitempty"`
	Bio    string   `json:"bio,omitempty"`
	Skills []string `json:"skills,omitempty"`
}

// OrganizationProfile is the role-specific sub-profile of an organization.
type OrganizationProfile struct {
	Name        string `json:"name"`
	Document    string `json:"document,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Description string `json:"description,omitempty"`
	Website     string `json:"website,omitempty"`
}

// User is the profile record held by a session.
type User struct {
	ID           string               `json:"id"`
	Email        string               `json:"email"`
	Role         roles.RoleTag        `json:"role"`
	Status       UserStatus           `json:"status"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
	Volunteer    *VolunteerProfile    `json:"volunteer,omitempty"`
	Organization *OrganizationProfile `json:"organization,omitempty"`
}

// DisplayName returns the sub-profile name, falling back to the email.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	switch {
	case u.Volunteer != nil && u.Volunteer.Name != "":
		return u.Volunteer.Name
	case u.Organization != nil && u.Organization.Name != "":
		return u.Organization.Name
	}
	return u.Email
}

// Clone returns a deep copy so callers never alias session state.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Volunteer != nil {
		v := *u.Volunteer
		v.Skills = append([]string(nil), u.Volunteer.Skills...)
		c.Volunteer = &v
	}
	if u.Organization != nil {
		o := *u.Organization
		c.Organization = &o
	}
	return &c
}

// ProfilePatch is a partial profile update. Nil fields are left untouched.
type ProfilePatch struct {
	Email       *string     `json:"email,omitempty" form:"email" binding:"omitempty,email"`
	Status      *UserStatus `json:"status,omitempty" form:"-"`
	Name        *string     `json:"name,omitempty" form:"name" binding:"omitempty,min=2,max=120"`
	Phone       *string     `json:"phone,omitempty" form:"phone" binding:"omitempty,max=32"`
	Bio         *string     `json:"bio,omitempty" form:"bio" binding:"omitempty,max=1000"`
	Description *string     `json:"description,omitempty" form:"description" binding:"omitempty,max=1000"`
	Website     *string     `json:"website,omitempty" form:"website" binding:"omitempty,url|len=0"`
	Skills      []string    `json:"skills,omitempty" form:"skills"`
}

// IsEmpty reports whether the patch changes nothing.
func (p ProfilePatch) IsEmpty() bool {
	return p.Email == nil && p.Status == nil && p.Name == nil && p.Phone == nil &&
		p.Bio == nil && p.Description == nil && p.Website == nil && p.Skills == nil
}

// Apply merges the patch into u. Fields that only exist on the other role's
// sub-profile are ignored.
func (p ProfilePatch) Apply(u *User, now time.Time) {
	if u == nil {
		return
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Status != nil {
		u.Status = *p.Status
	}

	switch u.Role {
	case roles.Volunteer:
		if u.Volunteer == nil {
			u.Volunteer = &VolunteerProfile{}
		}
		if p.Name != nil {
			u.Volunteer.Name = *p.Name
		}
		if p.Phone != nil {
			u.Volunteer.Phone = *p.Phone
		}
		if p.Bio != nil {
			u.Volunteer.Bio = *p.Bio
		}
		if p.Skills != nil {
			u.Volunteer.Skills = append([]string(nil), p.Skills...)
		}
	case roles.Organization:
		if u.Organization == nil {
			u.Organization = &OrganizationProfile{}
		}
		if p.Name != nil {
			u.Organization.Name = *p.Name
		}
		if p.Phone != nil {
			u.Organization.Phone = *p.Phone
		}
		if p.Description != nil {
			u.Organization.Description = *p.Description
		}
		if p.Website != nil {
			u.Organization.Website = *p.Website
		}
	}
	u.UpdatedAt = now
}
