package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is a back-office account. Roles live in user_roles.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	Email        string     `bun:"email,notnull" json:"email"`
	PasswordHash string     `bun:"password_hash,notnull" json:"-"`
	DisplayName  string     `bun:"display_name" json:"display_name"`
	LastSignInAt *time.Time `bun:"last_sign_in_at,nullzero" json:"last_sign_in_at,omitempty"`
	CreatedAt    time.Time  `bun:"created_at,nullzero" json:"created_at"`
	UpdatedAt    time.Time  `bun:"updated_at,nullzero" json:"updated_at"`
}

func (u *User) RecordID() uuid.UUID { return u.ID }

func (u *User) SetRecordID(id uuid.UUID) { u.ID = id }

func (u *User) CreatedTime() time.Time { return u.CreatedAt }

func (u *User) Stamp(created, updated time.Time) {
	u.CreatedAt = created
	u.UpdatedAt = updated
}

func cloneUser(u *User) *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.LastSignInAt != nil {
		t := *u.LastSignInAt
		c.LastSignInAt = &t
	}
	return &c
}

// UserRole grants one role to one user.
type UserRole struct {
	bun.BaseModel `bun:"table:user_roles,alias:ur"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	UserID    uuid.UUID `bun:"user_id,notnull,type:uuid" json:"user_id"`
	Role      string    `bun:"role,notnull" json:"role"`
	CreatedAt time.Time `bun:"created_at,nullzero" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero" json:"updated_at"`
}

// Account is a user as listed on the roles screen.
type Account struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	DisplayName  string     `json:"display_name"`
	Role         string     `json:"role"`
	LastSignInAt *time.Time `json:"last_sign_in_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
