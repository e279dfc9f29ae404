package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditAction names the authentication event being recorded.
type AuditAction string

const (
	ActionLogin        AuditAction = "login"
	ActionRegistration AuditAction = "registration"
	ActionCreateSeller AuditAction = "create_seller"
)

// LoginHistory is an append-only audit entry. One is written for every
// login, registration and seller-creation attempt, success or failure.
// Entries are never updated or deleted.
type LoginHistory struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username  string             `bson:"username" json:"username"`
	UserID    *string            `bson:"user_id" json:"user_id"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	Role      *Role              `bson:"role" json:"role"`
	Action    AuditAction        `bson:"action" json:"action"`
	Success   bool               `bson:"success" json:"success"`
	Error     *string            `bson:"error" json:"error"`
	IPAddress string             `bson:"ip_address" json:"ip_address"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}
