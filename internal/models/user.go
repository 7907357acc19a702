package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Role is the access level of a user account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// UserDB represents a user record in the database. The game-state columns
// (cave, resources, ship, reputation) are opaque JSON documents owned by the
// game services; the auth core never interprets them.
type UserDB struct {
	UserID               uuid.UUID       `db:"user_id"`
	UserName             string          `db:"user_name"`
	Email                string          `db:"email"`
	PasswordHash         string          `db:"password_hash"`
	PasswordChangedAt    time.Time       `db:"password_changed_at"`
	PasswordResetToken   *string         `db:"password_reset_token"`
	PasswordResetExpires *time.Time      `db:"password_reset_expires"`
	Role                 Role            `db:"role"`
	Cave                 json.RawMessage `db:"cave"`
	Resources            json.RawMessage `db:"resources"`
	Ship                 json.RawMessage `db:"ship"`
	Reputation           json.RawMessage `db:"reputation"`
	LastResourceUpdate   time.Time       `db:"last_resource_update"`
	CreatedAt            time.Time       `db:"created_at"`
	UpdatedAt            time.Time       `db:"updated_at"`
}

// UserView is the wire projection of a user. Credential fields never appear
// here regardless of how the row was loaded.
// swagger:model UserView
type UserView struct {
	ID                 uuid.UUID       `json:"id"`
	UserName           string          `json:"user_name"`
	Email              string          `json:"email"`
	PasswordChangedAt  time.Time       `json:"password_changed_at"`
	Role               Role            `json:"role"`
	Cave               json.RawMessage `json:"cave,omitempty"`
	Resources          json.RawMessage `json:"resources,omitempty"`
	Ship               json.RawMessage `json:"ship,omitempty"`
	Reputation         json.RawMessage `json:"reputation,omitempty"`
	LastResourceUpdate time.Time       `json:"last_resource_update"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// View returns the client-safe projection of the record.
func (u *UserDB) View() UserView {
	return UserView{
		ID:                 u.UserID,
		UserName:           u.UserName,
		Email:              u.Email,
		PasswordChangedAt:  u.PasswordChangedAt,
		Role:               u.Role,
		Cave:               u.Cave,
		Resources:          u.Resources,
		Ship:               u.Ship,
		Reputation:         u.Reputation,
		LastResourceUpdate: u.LastResourceUpdate,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}
