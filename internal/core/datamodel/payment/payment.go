package payment

import "time"

type Payment struct {
	ID             int64      `gorm:"primaryKey"`
	BookingID      int64      `gorm:"column:booking_id;not null"`
	Method         string     `gorm:"column:method;not null"`
	AmountIDR      int64      `gorm:"column:amount_idr;not null"`
	Status         string     `gorm:"column:status;default:pending"`
	ProofURL       *string    `gorm:"column:proof_url"`
	AdminNotes     *string    `gorm:"column:admin_notes"`
	GatewayToken   *string    `gorm:"column:gateway_token"`
	GatewayOrderID *string    `gorm:"column:gateway_order_id"`
	ValidatedAt    *time.Time `gorm:"column:validated_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Payment) TableName() string {
	return "payments"
}
