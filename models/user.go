package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Role gates the /admin route group. The back office runs on a single
// privileged role; every customer-facing flow is unauthenticated.
type Role string

const RoleAdmin Role = "ADMIN"

// User is a back-office account. The password is stored as a bcrypt hash and
// never serialized.
type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string        `bson:"email" json:"email"`
	PasswordHash string        `bson:"passwordHash" json:"-"`
	Role         Role          `bson:"role" json:"role"`
	IsActive     bool          `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// RefreshToken is one link in a rotation chain: presenting it revokes it and
// records the token issued in its place.
type RefreshToken struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	UserID    bson.ObjectID `bson:"userId"`
	TokenHash string        `bson:"tokenHash"`

	ExpiresAt  time.Time  `bson:"expiresAt"`
	RevokedAt  *time.Time `bson:"revokedAt,omitempty"`
	ReplacedBy *string    `bson:"replacedBy,omitempty"`
	CreatedAt  time.Time  `bson:"createdAt"`
}
