package repository

import (
	"context"
	"database/sql"

	"github.com/smartpark/carwash-api/internal/model"
)

// CarRepo provides persistence for registered cars. Cars are keyed by
// their plate number and are immutable once created: there is no update
// or delete path in the current flows.
type CarRepo struct{ db *sql.DB }

func NewCarRepo(db *sql.DB) *CarRepo { return &CarRepo{db: db} }

// Create inserts a new car. A duplicate plate number is reported as
// ErrCarExists via the primary key, so a concurrent double-register
// cannot slip past the pre-check in the handler.
func (r *CarRepo) Create(ctx context.Context, car *model.Car) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO cars (plate_number, car_type, car_size, driver_name, phone_number) VALUES (?,?,?,?,?)",
		car.PlateNumber, car.CarType, car.CarSize, car.DriverName, car.PhoneNumber)
	if isDuplicateKey(err, "") {
		return ErrCarExists
	}
	return err
}

// GetByPlate fetches a car by its plate number. sql.ErrNoRows is returned
// when the car does not exist.
func (r *CarRepo) GetByPlate(ctx context.Context, plate string) (model.Car, error) {
	var c model.Car
	err := r.db.QueryRowContext(ctx,
		"SELECT plate_number,car_type,car_size,driver_name,phone_number,created_at FROM cars WHERE plate_number=? LIMIT 1",
		plate).Scan(&c.PlateNumber, &c.CarType, &c.CarSize, &c.DriverName, &c.PhoneNumber, &c.CreatedAt)
	return c, err
}

// List returns every registered car ordered by registration time.
func (r *CarRepo) List(ctx context.Context) ([]model.Car, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT plate_number,car_type,car_size,driver_name,phone_number,created_at FROM cars ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	cars := make([]model.Car, 0)
	for rows.Next() {
		var c model.Car
		if err := rows.Scan(&c.PlateNumber, &c.CarType, &c.CarSize, &c.DriverName, &c.PhoneNumber, &c.CreatedAt); err != nil {
			return nil, err
		}
		cars = append(cars, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cars, nil
}
