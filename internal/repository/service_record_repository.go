package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/smartpark/carwash-api/internal/model"
)

// ServiceRecordRepo provides CRUD operations for logged services. A service
// record references a car, a package and the operator who logged it. Reads
// come in explicit variants: bare rows for internal checks, joined rows for
// listings, and a left-joined payment variant for the per-vehicle history
// report.
type ServiceRecordRepo struct{ db *sql.DB }

func NewServiceRecordRepo(db *sql.DB) *ServiceRecordRepo { return &ServiceRecordRepo{db: db} }

// ServiceRecordDetail is a service record with its related car, package and
// the username of the operator who logged it, as returned by listings so
// the client never needs a second round trip.
type ServiceRecordDetail struct {
	model.ServiceRecord
	Car      model.Car     `json:"car"`
	Package  model.Package `json:"package"`
	Username string        `json:"username"`
}

// ServiceHistoryEntry is one row of the per-vehicle history report: the
// record with its package and, when one exists, its payment. Payment is nil
// for unpaid services; the LEFT JOIN keeps those rows in the result.
type ServiceHistoryEntry struct {
	model.ServiceRecord
	Package model.Package  `json:"package"`
	Payment *model.Payment `json:"payment"`
}

// Create inserts a new service record and populates the generated record
// number. The caller must have verified that the referenced car and package
// exist; UserID is stamped from the authenticated session by the handler.
func (r *ServiceRecordRepo) Create(ctx context.Context, rec *model.ServiceRecord) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO service_records (service_date, plate_number, package_number, user_id) VALUES (?,?,?,?)",
		rec.ServiceDate, rec.PlateNumber, rec.PackageNumber, rec.UserID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.RecordNumber = uint64(id)
	return nil
}

// GetByID fetches a bare service record row. sql.ErrNoRows is returned
// when the record does not exist.
func (r *ServiceRecordRepo) GetByID(ctx context.Context, id uint64) (model.ServiceRecord, error) {
	var rec model.ServiceRecord
	err := r.db.QueryRowContext(ctx,
		"SELECT record_number,service_date,plate_number,package_number,user_id,created_at,updated_at FROM service_records WHERE record_number=? LIMIT 1",
		id).Scan(&rec.RecordNumber, &rec.ServiceDate, &rec.PlateNumber, &rec.PackageNumber, &rec.UserID, &rec.CreatedAt, &rec.UpdatedAt)
	return rec, err
}

const serviceDetailColumns = `s.record_number, s.service_date, s.plate_number, s.package_number, s.user_id, s.created_at, s.updated_at,
       c.plate_number, c.car_type, c.car_size, c.driver_name, c.phone_number, c.created_at,
       k.package_number, k.package_name, k.package_description, k.package_price, k.created_at,
       u.username`

// ListWithRelations returns every service record joined to its car, package
// and operator username, newest first.
func (r *ServiceRecordRepo) ListWithRelations(ctx context.Context) ([]ServiceRecordDetail, error) {
	q := `SELECT ` + serviceDetailColumns + `
        FROM service_records s
        JOIN cars c ON c.plate_number = s.plate_number
        JOIN packages k ON k.package_number = s.package_number
        JOIN users u ON u.user_id = s.user_id
        ORDER BY s.service_date DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]ServiceRecordDetail, 0)
	for rows.Next() {
		d, err := scanServiceDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// GetByIDWithRelations returns a single joined service record or
// sql.ErrNoRows when absent.
func (r *ServiceRecordRepo) GetByIDWithRelations(ctx context.Context, id uint64) (*ServiceRecordDetail, error) {
	q := `SELECT ` + serviceDetailColumns + `
        FROM service_records s
        JOIN cars c ON c.plate_number = s.plate_number
        JOIN packages k ON k.package_number = s.package_number
        JOIN users u ON u.user_id = s.user_id
        WHERE s.record_number = ?`
	row := r.db.QueryRowContext(ctx, q, id)
	d, err := scanServiceDetail(row)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanServiceDetail(s scanner) (ServiceRecordDetail, error) {
	var d ServiceRecordDetail
	var desc sql.NullString
	err := s.Scan(
		&d.RecordNumber, &d.ServiceDate, &d.PlateNumber, &d.PackageNumber, &d.UserID, &d.CreatedAt, &d.UpdatedAt,
		&d.Car.PlateNumber, &d.Car.CarType, &d.Car.CarSize, &d.Car.DriverName, &d.Car.PhoneNumber, &d.Car.CreatedAt,
		&d.Package.PackageNumber, &d.Package.PackageName, &desc, &d.Package.PackagePrice, &d.Package.CreatedAt,
		&d.Username,
	)
	if err != nil {
		return d, err
	}
	if desc.Valid {
		v := desc.String
		d.Package.PackageDescription = &v
	}
	return d, nil
}

// Update replaces the date, car and package of an existing record. The
// caller re-validates both foreign keys before calling. sql.ErrNoRows is
// returned when the record does not exist.
func (r *ServiceRecordRepo) Update(ctx context.Context, id uint64, serviceDate time.Time, plate string, packageNumber uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE service_records SET service_date=?, plate_number=?, package_number=? WHERE record_number=?",
		serviceDate, plate, packageNumber, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a service record. The delete is blocked with ErrConflict
// when a payment references the record: silently orphaning a payment would
// corrupt the payment report. The SELECT gives the fast path; the FK from
// payments.record_number is the real guard, so a payment committed between
// the check and the delete surfaces as a restrict error (1451) and is
// mapped to the same ErrConflict.
func (r *ServiceRecordRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var paymentNumber uint64
	err = tx.QueryRowContext(ctx,
		"SELECT payment_number FROM payments WHERE record_number=? LIMIT 1", id).Scan(&paymentNumber)
	if err == nil {
		return ErrConflict
	}
	if err != sql.ErrNoRows {
		return err
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM service_records WHERE record_number=?", id)
	if err != nil {
		if isChildRowConstraint(err) {
			return ErrConflict
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}

// ListByPlateWithPayment returns the service history for one car: every
// record joined to its package and left-joined to its payment so unpaid
// services still appear, with a nil payment.
func (r *ServiceRecordRepo) ListByPlateWithPayment(ctx context.Context, plate string) ([]ServiceHistoryEntry, error) {
	const q = `SELECT s.record_number, s.service_date, s.plate_number, s.package_number, s.user_id, s.created_at, s.updated_at,
              k.package_number, k.package_name, k.package_description, k.package_price, k.created_at,
              p.payment_number, p.amount_paid, p.payment_date, p.record_number, p.created_at
       FROM service_records s
       JOIN packages k ON k.package_number = s.package_number
       LEFT JOIN payments p ON p.record_number = s.record_number
       WHERE s.plate_number = ?
       ORDER BY s.service_date DESC`
	rows, err := r.db.QueryContext(ctx, q, plate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make([]ServiceHistoryEntry, 0)
	for rows.Next() {
		var e ServiceHistoryEntry
		var desc sql.NullString
		var payNumber, payRecord sql.NullInt64
		var payAmount sql.NullString
		var payDate, payCreated sql.NullTime
		if err := rows.Scan(
			&e.RecordNumber, &e.ServiceDate, &e.PlateNumber, &e.PackageNumber, &e.UserID, &e.CreatedAt, &e.UpdatedAt,
			&e.Package.PackageNumber, &e.Package.PackageName, &desc, &e.Package.PackagePrice, &e.Package.CreatedAt,
			&payNumber, &payAmount, &payDate, &payRecord, &payCreated,
		); err != nil {
			return nil, err
		}
		if desc.Valid {
			v := desc.String
			e.Package.PackageDescription = &v
		}
		if payNumber.Valid {
			p := model.Payment{
				PaymentNumber: uint64(payNumber.Int64),
				RecordNumber:  uint64(payRecord.Int64),
			}
			if err := p.AmountPaid.Scan(payAmount.String); err != nil {
				return nil, err
			}
			if payDate.Valid {
				p.PaymentDate = payDate.Time
			}
			if payCreated.Valid {
				p.CreatedAt = payCreated.Time
			}
			e.Payment = &p
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
