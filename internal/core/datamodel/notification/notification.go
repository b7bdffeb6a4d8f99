package notification

import "time"

type Notification struct {
	ID          int64     `gorm:"primaryKey"`
	UserID      int64     `gorm:"column:user_id;not null"`
	Kind        string    `gorm:"column:kind;not null"`
	Title       string    `gorm:"column:title;not null"`
	Message     string    `gorm:"column:message"`
	RelatedID   *int64    `gorm:"column:related_id"`
	RelatedType *string   `gorm:"column:related_type"`
	IsRead      bool      `gorm:"column:is_read;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Notification) TableName() string {
	return "notifications"
}
