package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type RoleType string

const (
	RoleAdmin  RoleType = "admin"
	RoleTenant RoleType = "tenant"
)

type ProfileStatusType string

const (
	ProfileStatusPending   ProfileStatusType = "pending"
	ProfileStatusApproved  ProfileStatusType = "approved"
	ProfileStatusSuspended ProfileStatusType = "suspended"
)

func (s ProfileStatusType) Valid() bool {
	switch s {
	case ProfileStatusPending, ProfileStatusApproved, ProfileStatusSuspended:
		return true
	}
	return false
}

// LeaseDocument is metadata about an uploaded lease. The file itself lives
// in object storage and is referenced by URL.
type LeaseDocument struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type Profile struct {
	ID           uuid.UUID         `json:"id"`
	Email        string            `json:"email"`
	FirstName    string            `json:"first_name"`
	LastName     string            `json:"last_name"`
	DisplayName  *string           `json:"display_name,omitempty"`
	Phone        *string           `json:"phone,omitempty"`
	IDNumber     *string           `json:"id_number,omitempty"`
	IDNumberFull *string           `json:"id_number_full,omitempty"`
	Role         RoleType          `json:"role"`
	Status       ProfileStatusType `json:"status"`
	PasswordHash string            `json:"-"`

	LeaseStartDate *time.Time     `json:"lease_start_date,omitempty"`
	LeaseEndDate   *time.Time     `json:"lease_end_date,omitempty"`
	LeaseDocument  *LeaseDocument `json:"lease_document,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName is the name snapshotted onto payments and shown in reminder logs.
func (p *Profile) FullName() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" && p.DisplayName != nil {
		name = *p.DisplayName
	}
	if name == "" {
		name = p.Email
	}
	return name
}
