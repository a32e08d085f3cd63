package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/smartpark/carwash-api/internal/model"
)

// PaymentRepo provides persistence for payments. Payments are created once
// per service record and never updated or deleted. The one-payment-per-
// record rule is enforced by the UNIQUE key on payments.record_number, so
// the check is race-safe regardless of any pre-check in the handler.
type PaymentRepo struct{ db *sql.DB }

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// PaymentServiceInfo carries the service record a payment settles, with its
// car and package.
type PaymentServiceInfo struct {
	RecordNumber  uint64        `json:"recordNumber"`
	ServiceDate   time.Time     `json:"serviceDate"`
	PlateNumber   string        `json:"plateNumber"`
	PackageNumber uint64        `json:"packageNumber"`
	UserID        uint64        `json:"userId"`
	Package       model.Package `json:"package"`
	Car           *model.Car    `json:"car"`
}

// PaymentDetail is a payment with its service record eagerly attached.
type PaymentDetail struct {
	model.Payment
	ServiceRecord PaymentServiceInfo `json:"serviceRecord"`
}

// Create inserts a payment and populates the generated payment number. A
// second payment for the same record loses the UNIQUE race and is reported
// as ErrPaymentExists.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO payments (amount_paid, payment_date, record_number) VALUES (?,?,?)",
		p.AmountPaid.String(), p.PaymentDate, p.RecordNumber)
	if err != nil {
		if isDuplicateKey(err, "") {
			return ErrPaymentExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.PaymentNumber = uint64(id)
	return nil
}

// ExistsByRecord reports whether a payment already settles the given
// service record. Used for a friendlier conflict message; the UNIQUE key
// remains the authority.
func (r *PaymentRepo) ExistsByRecord(ctx context.Context, recordNumber uint64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM payments WHERE record_number = ?", recordNumber).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

const paymentDetailColumns = `p.payment_number, p.amount_paid, p.payment_date, p.record_number, p.created_at,
       s.record_number, s.service_date, s.plate_number, s.package_number, s.user_id,
       k.package_number, k.package_name, k.package_description, k.package_price, k.created_at,
       c.plate_number, c.car_type, c.car_size, c.driver_name, c.phone_number, c.created_at`

// ListWithRelations returns every payment joined to its service record,
// car and package, newest first.
func (r *PaymentRepo) ListWithRelations(ctx context.Context) ([]PaymentDetail, error) {
	q := `SELECT ` + paymentDetailColumns + `
        FROM payments p
        JOIN service_records s ON s.record_number = p.record_number
        JOIN packages k ON k.package_number = s.package_number
        JOIN cars c ON c.plate_number = s.plate_number
        ORDER BY p.payment_date DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPaymentDetails(rows)
}

// GetByIDWithRelations returns a single joined payment or sql.ErrNoRows
// when absent.
func (r *PaymentRepo) GetByIDWithRelations(ctx context.Context, id uint64) (*PaymentDetail, error) {
	q := `SELECT ` + paymentDetailColumns + `
        FROM payments p
        JOIN service_records s ON s.record_number = p.record_number
        JOIN packages k ON k.package_number = s.package_number
        JOIN cars c ON c.plate_number = s.plate_number
        WHERE p.payment_number = ?`
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details, err := scanPaymentDetails(rows)
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, sql.ErrNoRows
	}
	return &details[0], nil
}

// ListByDateRange returns payments whose payment date falls within
// [start, end] inclusive, joined to service record, car and package for the
// date-range report. The caller normalizes end to the end of its calendar
// day before calling.
func (r *PaymentRepo) ListByDateRange(ctx context.Context, start, end time.Time) ([]PaymentDetail, error) {
	q := `SELECT ` + paymentDetailColumns + `
        FROM payments p
        JOIN service_records s ON s.record_number = p.record_number
        JOIN packages k ON k.package_number = s.package_number
        JOIN cars c ON c.plate_number = s.plate_number
        WHERE p.payment_date BETWEEN ? AND ?
        ORDER BY p.payment_date`
	rows, err := r.db.QueryContext(ctx, q, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPaymentDetails(rows)
}

func scanPaymentDetails(rows *sql.Rows) ([]PaymentDetail, error) {
	details := make([]PaymentDetail, 0)
	for rows.Next() {
		var d PaymentDetail
		var desc sql.NullString
		var car model.Car
		if err := rows.Scan(
			&d.PaymentNumber, &d.AmountPaid, &d.PaymentDate, &d.RecordNumber, &d.CreatedAt,
			&d.ServiceRecord.RecordNumber, &d.ServiceRecord.ServiceDate, &d.ServiceRecord.PlateNumber,
			&d.ServiceRecord.PackageNumber, &d.ServiceRecord.UserID,
			&d.ServiceRecord.Package.PackageNumber, &d.ServiceRecord.Package.PackageName, &desc,
			&d.ServiceRecord.Package.PackagePrice, &d.ServiceRecord.Package.CreatedAt,
			&car.PlateNumber, &car.CarType, &car.CarSize, &car.DriverName, &car.PhoneNumber, &car.CreatedAt,
		); err != nil {
			return nil, err
		}
		if desc.Valid {
			v := desc.String
			d.ServiceRecord.Package.PackageDescription = &v
		}
		d.ServiceRecord.Car = &car
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}
