package conversation

import (
	"time"

	"gorm.io/gorm"

	"github.com/kbukum/recorder/database"
)

// Conversation is a recorded conversation and its transcript.
type Conversation struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Title     string    `json:"title" gorm:"size:255;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Duration  int       `json:"duration" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}

func (Conversation) TableName() string { return "conversations" }

// CreateRequest is the body of POST /api/conversations.
type CreateRequest struct {
	Title string `json:"title" validate:"required,notblank,max=255"`
}

// Migrations returns the schema migrations for the conversations table.
func Migrations() []database.Migration {
	return []database.Migration{
		{
			ID:          "0001_create_conversations",
			Description: "create conversations table",
			Up: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&Conversation{})
			},
		},
	}
}
