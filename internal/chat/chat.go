package chat

import (
	"strings"
	"time"

	chatDatamodel "github.com/satriohadi/sewateman/internal/core/datamodel/chat"
	"github.com/satriohadi/sewateman/internal"
)

type Message struct {
	ID          int64     `json:"id"`
	SenderID    int64     `json:"sender_id"`
	RecipientID int64     `json:"recipient_id"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}

const maxMessageLength = 2000

type SendMessageDTO struct {
	Body string `json:"body"`
}

func (dto SendMessageDTO) Validate() error {
	body := strings.TrimSpace(dto.Body)
	if body == "" {
		return internal.NewValidationError("message body is required", internal.ErrCodeValidationFailed)
	}
	if len(body) > maxMessageLength {
		return internal.NewValidationError("message body is too long", internal.ErrCodeValidationFailed)
	}
	return nil
}

func ToDataModel(m *Message) *chatDatamodel.Message {
	return &chatDatamodel.Message{
		ID:          m.ID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Body:        m.Body,
		CreatedAt:   m.CreatedAt,
	}
}

func FromDataModel(m *chatDatamodel.Message) *Message {
	return &Message{
		ID:          m.ID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Body:        m.Body,
		CreatedAt:   m.CreatedAt,
	}
}

func FromDataModelSlice(rows []*chatDatamodel.Message) []*Message {
	result := make([]*Message, len(rows))
	for i, r := range rows {
		result[i] = FromDataModel(r)
	}
	return result
}
