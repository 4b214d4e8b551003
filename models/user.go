package models

import (
	"time"

	"gorm.io/datatypes"
)

// Role distinguishes students from the admins who manage a school account.
type Role string

const (
	RoleStudent     Role = "student"
	RoleSchoolAdmin Role = "school_admin"
)

// ApprovalStatus is the school's decision on a student's affiliation.
// An empty status means the student is an individual (implicitly approved).
type ApprovalStatus string

const (
	ApprovalNone     ApprovalStatus = ""
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
)

// User is the identity + progress record of a student or school admin.
type User struct {
	ID                string                   `gorm:"primaryKey" json:"id"`
	Name              string                   `gorm:"not null" json:"name"`
	Email             string                   `gorm:"uniqueIndex;not null" json:"email"`
	Role              Role                     `gorm:"type:varchar(16);not null" json:"role"`
	SchoolID          *string                  `gorm:"index" json:"school_id,omitempty"`
	Points            int64                    `gorm:"default:0" json:"points"`
	Badges            datatypes.JSONSlice[int] `gorm:"type:jsonb" json:"badges"`
	Approval          ApprovalStatus           `gorm:"type:varchar(16)" json:"approval,omitempty"`
	ProfilePictureURL string                   `json:"profile_picture_url,omitempty"`
	CreatedAt         time.Time                `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time                `json:"updated_at" gorm:"autoUpdateTime"`
}

// IsSchoolAffiliated reports whether the user is billed through a school.
func (u *User) IsSchoolAffiliated() bool {
	return u.SchoolID != nil && *u.SchoolID != ""
}

// IsApproved is true for approved students and for individuals.
func (u *User) IsApproved() bool {
	return u.Approval != ApprovalPending
}

// HasBadge reports whether the badge was already awarded.
func (u *User) HasBadge(badgeID int) bool {
	for _, b := range u.Badges {
		if b == badgeID {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices or pointers with u.
func (u User) Clone() User {
	out := u
	if u.Badges != nil {
		out.Badges = append(datatypes.JSONSlice[int]{}, u.Badges...)
	}
	if u.SchoolID != nil {
		id := *u.SchoolID
		out.SchoolID = &id
	}
	return out
}
