package postgres

import (
	"context"
	"time"

	paymentDatamodel "github.com/satriohadi/sewateman/internal/core/datamodel/payment"
	"github.com/satriohadi/sewateman/internal/payment"
	"gorm.io/gorm"
)

// PaymentRepository implements payment.RepositoryAPI using GORM.
type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) payment.RepositoryAPI {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	row := payment.ToDataModel(p)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	p.ID = row.ID
	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*payment.Payment, error) {
	var row paymentDatamodel.Payment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		return nil, err
	}
	return payment.FromDataModel(&row), nil
}

// GetLatestByBookingID returns the most recent payment attempt for a booking,
// or (nil, nil) when none exists.
func (r *PaymentRepository) GetLatestByBookingID(ctx context.Context, bookingID int64) (*payment.Payment, error) {
	var rows []*paymentDatamodel.Payment
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at DESC, id DESC").
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return payment.FromDataModel(rows[0]), nil
}

func (r *PaymentRepository) ListByStatus(ctx context.Context, status payment.Status, limit int) ([]*payment.Payment, error) {
	var rows []*paymentDatamodel.Payment
	err := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&rows).Error
	return payment.FromDataModelSlice(rows), err
}

// UpdateStatus writes the new status only when the stored status still equals
// from. Zero rows matched means the caller lost a race.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id int64, from, to payment.Status, notes *string, validatedAt *time.Time, updatedAt time.Time) (int64, error) {
	updates := map[string]interface{}{
		"status":     string(to),
		"updated_at": updatedAt,
	}
	if notes != nil {
		updates["admin_notes"] = *notes
	}
	if validatedAt != nil {
		updates["validated_at"] = *validatedAt
	}

	result := r.db.WithContext(ctx).
		Model(&paymentDatamodel.Payment{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *PaymentRepository) SetProof(ctx context.Context, id int64, proofURL string, from, to payment.Status, updatedAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&paymentDatamodel.Payment{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]interface{}{
			"proof_url":  proofURL,
			"status":     string(to),
			"updated_at": updatedAt,
		})
	return result.RowsAffected, result.Error
}

func (r *PaymentRepository) SetGatewayRef(ctx context.Context, id int64, token, orderID string, updatedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&paymentDatamodel.Payment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"gateway_token":    token,
			"gateway_order_id": orderID,
			"updated_at":       updatedAt,
		}).Error
}
