// Package queue defines message payloads exchanged over the message broker.
package queue

// ServiceLoggedEvent is published when a service record is created. It
// carries enough information for downstream consumers to log or notify
// without querying the primary database.
type ServiceLoggedEvent struct {
	RecordNumber  uint64 `json:"record_number"`
	PlateNumber   string `json:"plate_number"`
	PackageNumber uint64 `json:"package_number"`
	PackageName   string `json:"package_name"`
	ServiceDate   string `json:"service_date"`
	LoggedByUser  uint64 `json:"logged_by_user"`
}

// PaymentRecordedEvent is published when a payment is recorded against a
// service record. AmountPaid is the exact decimal string, never a float.
type PaymentRecordedEvent struct {
	PaymentNumber uint64 `json:"payment_number"`
	RecordNumber  uint64 `json:"record_number"`
	PlateNumber   string `json:"plate_number"`
	AmountPaid    string `json:"amount_paid"`
	PaymentDate   string `json:"payment_date"`
}

// Queue names used by the publisher and consumers.
const (
	ServiceLoggedQueue   = "service.logged"
	PaymentRecordedQueue = "payment.recorded"
)
