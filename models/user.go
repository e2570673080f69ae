package models

import (
	"time"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleCustomer UserRole = "CUSTOMER"
	RoleChef     UserRole = "CHEF"
	RoleAdmin    UserRole = "ADMIN"
)

// IsStaff reports whether the role may act on behalf of the restaurant
func (r UserRole) IsStaff() bool {
	return r == RoleChef || r == RoleAdmin
}

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         UserRole  `json:"role" gorm:"not null;default:'CUSTOMER'"`
	Avatar       string    `json:"avatar"` // opaque media reference, resolved on output
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	Active       bool      `json:"active" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
