package models

import "time"

// Company is the billing and authorization root for Warehouses and
// BuyerNeeds alike — the boundary "created_by is audit-only; authorization
// always goes through Company" (§3) runs through this entity.
type Company struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserRole is the company_role named in §3: admin or member. Admin here is
// a company-scoped permission, not automatically the state machine's
// platform-level Actor=admin override — pkg/api derives the latter from a
// distinct platform-staff claim in the JWT, never from company_role alone.
type UserRole string

const (
	UserRoleMember UserRole = "member"
	UserRoleAdmin  UserRole = "admin"
)

// User authenticates via a JWT bearer token carrying CompanyID and Role.
// IsPlatformAdmin is set only for platform support staff and is what
// actually grants the state machine's Actor=admin override — distinct from
// a company's own UserRoleAdmin, which only grants extra rights within
// that company's own warehouses/buyer needs.
type User struct {
	ID              string
	CompanyID       string
	Email           string
	PasswordHash    string
	Role            UserRole
	IsPlatformAdmin bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
