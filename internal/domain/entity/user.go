package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the closed set of user roles recognized by the system.
type Role string

const (
	RoleAdministrator Role = "administrator"
	RolePsychologist  Role = "psychologist"
	RoleReceptionist  Role = "receptionist"
	RolePatient       Role = "patient"
)

// Valid reports whether r is one of the recognized roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdministrator, RolePsychologist, RoleReceptionist, RolePatient:
		return true
	}
	return false
}

// User represents a clinic staff member or patient account.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Cedula    string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"cedula"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	FirstName string    `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName  string    `gorm:"type:varchar(100);not null" json:"last_name"`
	Phone     string    `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Role      Role      `gorm:"type:varchar(20);not null;index" json:"role"`
	IsActive  bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// FullName returns the display name of the user.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Actor identifies the authenticated user performing an operation.
// Core operations take it as an explicit parameter so that ownership checks
// and audit attribution never rely on ambient state.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

// IsPsychologist reports whether the actor holds the psychologist role.
func (a Actor) IsPsychologist() bool {
	return a.Role == RolePsychologist
}

// CanViewPrivateNotes reports whether private appointment notes may be
// serialized for this actor.
func (a Actor) CanViewPrivateNotes() bool {
	return a.Role == RolePsychologist || a.Role == RoleAdministrator
}
