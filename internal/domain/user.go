package domain

import (
	"time"
)

type Role string

const (
	RoleStudent    Role = "student"
	RoleSupervisor Role = "supervisor"
)

type User struct {
	ID              int64     `json:"id"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Role            Role      `json:"role"`
	MaxHoursPerWeek float64   `json:"maxHoursPerWeek"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	Version         int32     `json:"-"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Actor identifies who is performing an operation. It is passed explicitly
// into every legality check instead of being read from ambient session state.
type Actor struct {
	ID   int64
	Role Role
}

func (a Actor) IsSupervisor() bool {
	return a.Role == RoleSupervisor
}
