package chat

import "time"

type Message struct {
	ID          int64     `gorm:"primaryKey"`
	SenderID    int64     `gorm:"column:sender_id;not null"`
	RecipientID int64     `gorm:"column:recipient_id;not null"`
	Body        string    `gorm:"column:body;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Message) TableName() string {
	return "chat_messages"
}
