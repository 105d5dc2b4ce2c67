package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Builder is an account that owns chatbots and uploads property data.
type Builder struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	UserID    string    `gorm:"type:text;not null;uniqueIndex" json:"user_id"`
	Email     string    `gorm:"type:text" json:"email"`
	Name      string    `gorm:"type:text" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Builder) TableName() string { return "builder" }

// Chatbot is the per-route bot configuration created by an ingestion run.
// Route uniqueness is enforced at the storage layer so concurrent runs
// with the same route cannot both succeed.
type Chatbot struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	UserID             string    `gorm:"type:text;not null;index" json:"user_id"`
	Route              string    `gorm:"type:text;not null;uniqueIndex" json:"route"`
	ChatbotInstruction string    `gorm:"type:text;not null" json:"chatbot_instruction"`
	AppName            string    `gorm:"type:text" json:"app_name"`
	BackgroundColor    string    `gorm:"type:text" json:"background_color"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Chatbot) TableName() string { return "chatbot" }

// Property is one ingested listing row. The structured columns hold the
// normalized CSV fields plus enriched media references.
type Property struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Route     string         `gorm:"type:text;not null;index" json:"route"`
	Meta      datatypes.JSON `gorm:"type:jsonb;not null" json:"meta"`
	Ratings   datatypes.JSON `gorm:"type:jsonb;not null" json:"ratings"`
	Features  datatypes.JSON `gorm:"type:jsonb;not null" json:"features"`
	Link      *string        `gorm:"type:text" json:"link,omitempty"`
	Images    datatypes.JSON `gorm:"type:jsonb" json:"images,omitempty"`
	Videos    datatypes.JSON `gorm:"type:jsonb" json:"videos,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Property) TableName() string { return "property" }
