package payment

import (
	"time"

	paymentDatamodel "github.com/satriohadi/sewateman/internal/core/datamodel/payment"
)

type Status string

const (
	StatusPending           Status = "pending"
	StatusWaitingValidation Status = "waiting_validation"
	StatusApproved          Status = "approved"
	StatusRejected          Status = "rejected"
	StatusCancelled         Status = "cancelled"
	StatusExpired           Status = "expired"
)

const (
	MethodBankTransfer = "bank_transfer"
	MethodGateway      = "gateway"
)

// Payment is one payment attempt for a booking. Rows are mutated only by
// admin validation or system expiry; the booking engine reads them, never
// writes.
type Payment struct {
	ID             int64      `json:"id"`
	BookingID      int64      `json:"booking_id"`
	Method         string     `json:"method"`
	AmountIDR      int64      `json:"amount_idr"`
	Status         Status     `json:"status"`
	ProofURL       *string    `json:"proof_url,omitempty"`
	AdminNotes     *string    `json:"admin_notes,omitempty"`
	GatewayToken   *string    `json:"gateway_token,omitempty"`
	GatewayOrderID *string    `json:"gateway_order_id,omitempty"`
	ValidatedAt    *time.Time `json:"validated_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (p *Payment) CanBeValidated() bool {
	return p.Status == StatusPending || p.Status == StatusWaitingValidation
}

func (p *Payment) IsSettled() bool {
	switch p.Status {
	case StatusApproved, StatusRejected, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

func ToDataModel(p *Payment) *paymentDatamodel.Payment {
	return &paymentDatamodel.Payment{
		ID:             p.ID,
		BookingID:      p.BookingID,
		Method:         p.Method,
		AmountIDR:      p.AmountIDR,
		Status:         string(p.Status),
		ProofURL:       p.ProofURL,
		AdminNotes:     p.AdminNotes,
		GatewayToken:   p.GatewayToken,
		GatewayOrderID: p.GatewayOrderID,
		ValidatedAt:    p.ValidatedAt,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func FromDataModel(p *paymentDatamodel.Payment) *Payment {
	return &Payment{
		ID:             p.ID,
		BookingID:      p.BookingID,
		Method:         p.Method,
		AmountIDR:      p.AmountIDR,
		Status:         Status(p.Status),
		ProofURL:       p.ProofURL,
		AdminNotes:     p.AdminNotes,
		GatewayToken:   p.GatewayToken,
		GatewayOrderID: p.GatewayOrderID,
		ValidatedAt:    p.ValidatedAt,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*paymentDatamodel.Payment) []*Payment {
	result := make([]*Payment, len(rows))
	for i, r := range rows {
		result[i] = FromDataModel(r)
	}
	return result
}
