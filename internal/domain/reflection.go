package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReflectionResponse is one free-text answer. At most one row exists per
// (user, set, item); saves upsert in place.
type ReflectionResponse struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_reflection_user_set_item;not null;column:user_id" json:"user_id"`
	SetID  string    `gorm:"uniqueIndex:idx_reflection_user_set_item;not null;column:set_id" json:"set_id"`
	ItemID string    `gorm:"uniqueIndex:idx_reflection_user_set_item;not null;column:item_id" json:"item_id"`

	Response  string `gorm:"type:text;column:response" json:"response"`
	Completed bool   `gorm:"not null;default:false;column:completed" json:"completed"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (ReflectionResponse) TableName() string { return "reflection_responses" }
