package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment mirrors the `payments` table.  At most one payment exists per
// service record; the database enforces that with a UNIQUE key on
// record_number, so concurrent creates for the same record cannot both
// succeed.  Payments are never updated or deleted.
//
// Fields:
//  PaymentNumber – primary key identifier.
//  AmountPaid    – strictly positive amount, DECIMAL(10,2).
//  PaymentDate   – when the payment was received (defaults to now).
//  RecordNumber  – service record being paid (FK, UNIQUE).
//  CreatedAt     – creation timestamp.
type Payment struct {
	PaymentNumber uint64          `json:"paymentNumber"` // payments.payment_number
	AmountPaid    decimal.Decimal `json:"amountPaid"`    // payments.amount_paid
	PaymentDate   time.Time       `json:"paymentDate"`   // payments.payment_date
	RecordNumber  uint64          `json:"recordNumber"`  // payments.record_number
	CreatedAt     time.Time       `json:"createdAt"`     // payments.created_at
}
