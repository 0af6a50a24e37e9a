package domain

import (
	"time"

	"github.com/google/uuid"
)

type CoachConversation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null;column:user_id" json:"user_id"`
	Workshop  string    `gorm:"not null;column:workshop" json:"workshop"`
	Title     string    `gorm:"column:title" json:"title"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (CoachConversation) TableName() string { return "coach_conversations" }

type CoachMessage struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ConversationID uuid.UUID `gorm:"type:uuid;index;not null;column:conversation_id" json:"conversation_id"`
	Role           string    `gorm:"not null;column:role" json:"role"`
	Content        string    `gorm:"type:text;not null;column:content" json:"content"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
}

func (CoachMessage) TableName() string { return "coach_messages" }

const (
	CoachRoleUser      = "user"
	CoachRoleAssistant = "assistant"
)

// BetaNote is free-form tester feedback tied to wherever the tester was.
type BetaNote struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null;column:user_id" json:"user_id"`
	Workshop  string    `gorm:"column:workshop" json:"workshop"`
	StepID    string    `gorm:"column:step_id" json:"step_id"`
	Note      string    `gorm:"type:text;not null;column:note" json:"note"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (BetaNote) TableName() string { return "beta_notes" }
