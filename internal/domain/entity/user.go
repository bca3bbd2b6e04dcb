package entity

import (
	"time"
)

// AdminRoleName is the role that grants access to the admin API
const AdminRoleName = "admin"

// User represents an account allowed to use the service
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Login     string    `json:"login" gorm:"type:varchar(32);uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"type:varchar(64);not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relations
	Roles []Role `json:"roles,omitempty" gorm:"many2many:users_and_roles;"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new User with an already hashed password
func NewUser(login, passwordHash string, roles []Role) *User {
	return &User{
		Login:    login,
		Password: passwordHash,
		Roles:    roles,
	}
}

// RoleNames returns the names of all roles assigned to the user
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// HasRole returns true if the user has the named role
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// Role represents a named permission group
type Role struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"type:varchar(32);uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	Users []User `json:"-" gorm:"many2many:users_and_roles;"`
}

// TableName returns the table name for GORM
func (Role) TableName() string {
	return "roles"
}
