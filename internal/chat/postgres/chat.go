package postgres

import (
	"context"

	"github.com/satriohadi/sewateman/internal/chat"
	chatDatamodel "github.com/satriohadi/sewateman/internal/core/datamodel/chat"
	"gorm.io/gorm"
)

// MessageRepository implements chat.RepositoryAPI using GORM.
type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) chat.RepositoryAPI {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, m *chat.Message) error {
	row := chat.ToDataModel(m)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	m.ID = row.ID
	return nil
}

func (r *MessageRepository) GetBetween(ctx context.Context, partyA, partyB int64, limit, offset int) ([]*chat.Message, error) {
	var rows []*chatDatamodel.Message
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			partyA, partyB, partyB, partyA).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return chat.FromDataModelSlice(rows), err
}
