package booking

import "time"

type Booking struct {
	ID              int64      `gorm:"primaryKey"`
	RenterID        int64      `gorm:"column:renter_id;not null"`
	ProviderID      *int64     `gorm:"column:provider_id"`
	BookingDate     time.Time  `gorm:"column:booking_date;type:date"`
	BookingTime     string     `gorm:"column:booking_time;not null"`
	DurationHours   int        `gorm:"column:duration_hours;not null"`
	PackageName     string     `gorm:"column:package_name"`
	PackageDuration string     `gorm:"column:package_duration"`
	TotalAmount     int64      `gorm:"column:total_amount;not null"`
	Notes           *string    `gorm:"column:notes"`
	PaymentID       *int64     `gorm:"column:payment_id"`
	Status          string     `gorm:"column:status;default:pending"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Booking) TableName() string {
	return "bookings"
}
