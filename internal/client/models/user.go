// Package models defines the portal's client-side data types: users,
// memberships, and catalog services.
package models

import "time"

// MembershipTier classifies a user's service level.
type MembershipTier string

const (
	TierPlatinum MembershipTier = "platinum"
	TierGold     MembershipTier = "gold"
	TierSilver   MembershipTier = "silver"
	TierFree     MembershipTier = "free"
)

// User is the portal account as returned by the IAM service. It is owned by
// the session: replaced wholesale on login/register, patched field-wise via
// UserPatch, cleared on logout.
type User struct {
	ID             string         `json:"id"`
	Email          string         `json:"email"`
	Username       string         `json:"username"`
	Phone          string         `json:"phone,omitempty"`
	FirstName      string         `json:"firstName,omitempty"`
	LastName       string         `json:"lastName,omitempty"`
	Avatar         string         `json:"avatar,omitempty"`
	MembershipTier MembershipTier `json:"membershipTier"`
	IsActive       bool           `json:"isActive"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// UserPatch is a partial User update. Nil fields are left untouched;
// non-nil fields overwrite the current value (last write wins per field).
type UserPatch struct {
	Email          *string
	Username       *string
	Phone          *string
	FirstName      *string
	LastName       *string
	Avatar         *string
	MembershipTier *MembershipTier
	IsActive       *bool
}

// Apply returns a copy of u with the non-nil fields of p merged in.
func (p UserPatch) Apply(u User) User {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	if p.MembershipTier != nil {
		u.MembershipTier = *p.MembershipTier
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
	return u
}

// IsZero reports whether the patch carries no changes.
func (p UserPatch) IsZero() bool {
	return p == UserPatch{}
}
