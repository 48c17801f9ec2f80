package entity

import "time"

// OfferDocument is one offer cycle for an application. Declining or
// withdrawing is terminal for the document; a new cycle creates a new
// document rather than resurrecting the old one. A company-initiated
// withdrawal is distinguished from a candidate decline only by the
// presence of WithdrawalReason.
type OfferDocument struct {
	ID            string `json:"id"`
	ApplicationID string `json:"application_id"`

	OfferAmount float64 `json:"offer_amount"`
	DocumentURL string  `json:"document_url"`
	Status      string  `json:"status"`

	SentAt            *time.Time `json:"sent_at,omitempty"`
	SignedAt          *time.Time `json:"signed_at,omitempty"`
	DeclinedAt        *time.Time `json:"declined_at,omitempty"`
	SignedDocumentURL string     `json:"signed_document_url,omitempty"`
	WithdrawalReason  string     `json:"withdrawal_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsTerminal returns true once the offer cycle has concluded.
func (o *OfferDocument) IsTerminal() bool {
	return o.Status == OfferStatusSigned || o.Status == OfferStatusDeclined
}
