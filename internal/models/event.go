package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRegisteredEvent is published to Kafka after a successful sign-up.
type UserRegisteredEvent struct {
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
