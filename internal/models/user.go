package models

import (
	"fmt"

	"gorm.io/gorm"

	"pedefood/internal/errs"
)

// Role identifies which kind of actor a user is. Each role unlocks a
// different set of order transitions (see status.go).
type Role string

const (
	RoleCustomer Role = "customer"
	RoleOwner    Role = "owner"
	RoleCourier  Role = "courier"
)

// ParseRole converts an untrusted string into a Role, rejecting anything
// outside the three known variants.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer, RoleOwner, RoleCourier:
		return Role(s), nil
	default:
		return "", errs.Validationf("unknown role %q", s)
	}
}

// User represents an account of the delivery platform. Email is the login key.
// The wire field names keep the legacy API surface (nome/senha/tipo).
type User struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name       string `json:"nome" validate:"required,min=2,max=100"`
	Email      string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password   string `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"`
	Role       Role   `json:"tipo" gorm:"type:varchar(16)" validate:"required"`
	gorm.Model `json:"-"`
}

func (u User) String() string {
	return fmt.Sprintf("User(%s, %s, %s)", u.ID, u.Email, u.Role)
}
