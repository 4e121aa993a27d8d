package conversation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kbukum/recorder/database"
)

const resourceName = "conversation"

// Store is the record store the pipeline and service depend on.
type Store interface {
	Create(ctx context.Context, title string) (*Conversation, error)
	GetByID(ctx context.Context, id string) (*Conversation, error)
	List(ctx context.Context) ([]Conversation, error)
	// UpdateTranscript writes content, duration and updated_at together.
	UpdateTranscript(ctx context.Context, id, content string, duration int) (*Conversation, error)
	Delete(ctx context.Context, id string) (*Conversation, error)
}

var _ Store = (*Repository)(nil)

// Repository is the gorm-backed Store.
type Repository struct {
	db  *database.DB
	now func() time.Time
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Create inserts a conversation with an empty transcript and zero duration.
func (r *Repository) Create(ctx context.Context, title string) (*Conversation, error) {
	now := r.now()
	c := &Conversation{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   "",
		Duration:  0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, database.FromDatabase(err, resourceName, c.ID, "create conversation")
	}
	return c, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Conversation, error) {
	var c Conversation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, database.FromDatabase(err, resourceName, id, "get conversation")
	}
	return &c, nil
}

// List returns every conversation, newest first.
func (r *Repository) List(ctx context.Context) ([]Conversation, error) {
	out := make([]Conversation, 0)
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id").Find(&out).Error; err != nil {
		return nil, database.FromDatabase(err, resourceName, "", "list conversations")
	}
	return out, nil
}

func (r *Repository) UpdateTranscript(ctx context.Context, id, content string, duration int) (*Conversation, error) {
	var c Conversation
	err := r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		res := tx.Model(&Conversation{}).Where("id = ?", id).Updates(map[string]any{
			"content":    content,
			"duration":   duration,
			"updated_at": r.now(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("id = ?", id).First(&c).Error
	})
	if err != nil {
		return nil, database.FromDatabase(err, resourceName, id, "update transcript")
	}
	return &c, nil
}

// Delete removes the record and returns it as it was. The audio blob is
// left in place.
func (r *Repository) Delete(ctx context.Context, id string) (*Conversation, error) {
	var c Conversation
	err := r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&c).Error; err != nil {
			return err
		}
		return tx.Delete(&Conversation{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, database.FromDatabase(err, resourceName, id, "delete conversation")
	}
	return &c, nil
}
