package payment

import (
	"strings"

	"github.com/satriohadi/sewateman/internal"
)

type InitiatePaymentDTO struct {
	BookingID int64  `json:"booking_id"`
	Method    string `json:"method"`
}

func (dto InitiatePaymentDTO) Validate() error {
	if dto.BookingID <= 0 {
		return internal.NewValidationError("booking is required", internal.ErrCodeValidationFailed)
	}
	if dto.Method != MethodBankTransfer && dto.Method != MethodGateway {
		return internal.NewValidationError("unknown payment method", internal.ErrCodeValidationFailed)
	}
	return nil
}

type SubmitProofDTO struct {
	ProofURL string `json:"proof_url"`
}

func (dto SubmitProofDTO) Validate() error {
	if strings.TrimSpace(dto.ProofURL) == "" {
		return internal.NewValidationError("proof of payment is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type ValidatePaymentDTO struct {
	Approve bool   `json:"approve"`
	Notes   string `json:"notes,omitempty"`
}

func (dto ValidatePaymentDTO) Validate() error {
	if !dto.Approve && strings.TrimSpace(dto.Notes) == "" {
		return internal.NewValidationError("notes are required when rejecting a payment", internal.ErrCodeNoteRequired)
	}
	return nil
}
