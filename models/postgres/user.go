package postgres

import (
	"time"
)

// Role is the closed set of account roles. Kept as a typed string so a
// stray "ADMIN" from a client can never pass a role check.
type Role string

const (
	RolePlayer Role = "player"
	RoleAdmin  Role = "admin"
)

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RolePlayer || r == RoleAdmin
}

/*
 * 'User' contains the blueprint definition of an account. Players request
 * buy-ins and cash-outs; admins create sessions and resolve requests.
 */
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email        string    `gorm:"size:100;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	FullName     string    `gorm:"size:100;not null" json:"fullName"`
	Role         Role      `gorm:"size:20;not null;default:player" json:"role"`
	IsActive     bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// Sessions this user created (admin accounts only in practice)
	CreatedSessions []*GameSession `gorm:"foreignKey:CreatedByID" json:"-"`
}
