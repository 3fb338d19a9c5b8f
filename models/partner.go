package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Partner struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string        `bson:"name" json:"name"`
	Logo        string        `bson:"logo" json:"logo"`
	LogoObject  string        `bson:"logoObject,omitempty" json:"-"`
	Description string        `bson:"description,omitempty" json:"description,omitempty"`
	Website     string        `bson:"website,omitempty" json:"website,omitempty"`
	IsActive    bool          `bson:"isActive" json:"isActive"`
	SortOrder   int           `bson:"sortOrder" json:"sortOrder"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt" json:"updatedAt"`
}
