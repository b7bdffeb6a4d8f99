package postgres

import (
	"context"
	"time"

	"github.com/satriohadi/sewateman/internal/booking"
	bookingDatamodel "github.com/satriohadi/sewateman/internal/core/datamodel/booking"
	"gorm.io/gorm"
)

// BookingRepository implements booking.RepositoryAPI using GORM.
type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) booking.RepositoryAPI {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	row := booking.ToDataModel(b)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	b.ID = row.ID
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*booking.Booking, error) {
	var row bookingDatamodel.Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		return nil, err
	}
	return booking.FromDataModel(&row), nil
}

func (r *BookingRepository) GetByRenterID(ctx context.Context, renterID int64, limit, offset int) ([]*booking.Booking, error) {
	var rows []*bookingDatamodel.Booking
	err := r.db.WithContext(ctx).
		Where("renter_id = ?", renterID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return booking.FromDataModelSlice(rows), err
}

func (r *BookingRepository) GetByProviderID(ctx context.Context, providerID int64, limit, offset int) ([]*booking.Booking, error) {
	var rows []*bookingDatamodel.Booking
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return booking.FromDataModelSlice(rows), err
}

// GetBetweenParties returns every booking linking the two users in either
// direction, most recent first with id as the deterministic tie-break.
func (r *BookingRepository) GetBetweenParties(ctx context.Context, partyA, partyB int64) ([]*booking.Booking, error) {
	var rows []*bookingDatamodel.Booking
	err := r.db.WithContext(ctx).
		Where("(renter_id = ? AND provider_id = ?) OR (renter_id = ? AND provider_id = ?)",
			partyA, partyB, partyB, partyA).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	return booking.FromDataModelSlice(rows), err
}

func (r *BookingRepository) ListByStatus(ctx context.Context, status booking.Status, limit int) ([]*booking.Booking, error) {
	var rows []*bookingDatamodel.Booking
	err := r.db.WithContext(ctx).
		Where("status IN ?", storedSpellings(status)).
		Order("booking_date ASC, id ASC").
		Limit(limit).
		Find(&rows).Error
	return booking.FromDataModelSlice(rows), err
}

// UpdateStatus writes the new status only when the stored status still equals
// from. Zero rows matched means the caller lost a race.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, from, to booking.Status, note *string, updatedAt time.Time) (int64, error) {
	updates := map[string]interface{}{
		"status":     string(to),
		"updated_at": updatedAt,
	}
	if note != nil {
		updates["notes"] = *note
	}

	result := r.db.WithContext(ctx).
		Model(&bookingDatamodel.Booking{}).
		Where("id = ? AND status IN ?", id, storedSpellings(from)).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *BookingRepository) AttachPayment(ctx context.Context, bookingID, paymentID int64, updatedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&bookingDatamodel.Booking{}).
		Where("id = ?", bookingID).
		Updates(map[string]interface{}{
			"payment_id": paymentID,
			"updated_at": updatedAt,
		}).Error
}

// storedSpellings maps a canonical status to every spelling legacy rows may
// carry, so guarded updates and scans also match old "confirmed" rows.
func storedSpellings(s booking.Status) []string {
	if s == booking.StatusApproved {
		return []string{string(booking.StatusApproved), "confirmed"}
	}
	return []string{string(s)}
}
