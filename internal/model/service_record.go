package model

import "time"

// ServiceRecord records a single wash: a car received a package on a date,
// logged by an operator.  It mirrors the `service_records` table.
//
// Fields:
//  RecordNumber  – primary key identifier.
//  ServiceDate   – when the service was performed (defaults to now).
//  PlateNumber   – car that was serviced (FK cars.plate_number).
//  PackageNumber – package applied (FK packages.package_number).
//  UserID        – operator who logged the record (FK users.user_id);
//                  always stamped from the authenticated session, never
//                  taken from the client.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type ServiceRecord struct {
	RecordNumber  uint64    `json:"recordNumber"`  // service_records.record_number
	ServiceDate   time.Time `json:"serviceDate"`   // service_records.service_date
	PlateNumber   string    `json:"plateNumber"`   // service_records.plate_number
	PackageNumber uint64    `json:"packageNumber"` // service_records.package_number
	UserID        uint64    `json:"userId"`        // service_records.user_id
	CreatedAt     time.Time `json:"createdAt"`     // service_records.created_at
	UpdatedAt     time.Time `json:"updatedAt"`     // service_records.updated_at
}
