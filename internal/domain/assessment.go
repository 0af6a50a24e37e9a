package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UserAssessment is insert-only: every save creates a new row and readers
// take the most recent by created_at.
type UserAssessment struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;index:idx_assessment_user_type;not null;column:user_id" json:"user_id"`
	AssessmentType string         `gorm:"index:idx_assessment_user_type;not null;column:assessment_type" json:"assessment_type"`
	Results        datatypes.JSON `gorm:"not null;column:results" json:"results"`
	CreatedAt      time.Time      `gorm:"not null;index" json:"created_at"`
}

func (UserAssessment) TableName() string { return "user_assessments" }

const (
	AssessmentTypeStarCard      = "starCard"
	AssessmentTypeFlow          = "flowAssessment"
	AssessmentTypeCantrilLadder = "cantrilLadder"
	AssessmentTypeStepReflect   = "stepByStepReflection"
)

// StarCard holds the derived four-quadrant strengths percentages. One row
// per user, updated in place as the assessment progresses.
type StarCard struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;column:user_id" json:"user_id"`

	Thinking int `gorm:"not null;default:0;column:thinking" json:"thinking"`
	Acting   int `gorm:"not null;default:0;column:acting" json:"acting"`
	Feeling  int `gorm:"not null;default:0;column:feeling" json:"feeling"`
	Planning int `gorm:"not null;default:0;column:planning" json:"planning"`

	State string `gorm:"not null;default:empty;column:state" json:"state"`

	ImageBucketKey string `gorm:"column:image_bucket_key" json:"image_bucket_key"`
	ImageURL       string `gorm:"column:image_url" json:"image_url"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (StarCard) TableName() string { return "star_cards" }

const (
	StarCardStateEmpty    = "empty"
	StarCardStatePartial  = "partial"
	StarCardStateComplete = "complete"
)

type FlowAttributes struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null;column:user_id" json:"user_id"`
	Attributes datatypes.JSON `gorm:"column:attributes" json:"attributes"`
	FlowScore  int            `gorm:"not null;default:0;column:flow_score" json:"flow_score"`
	CreatedAt  time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null" json:"updated_at"`
}

func (FlowAttributes) TableName() string { return "flow_attributes" }
