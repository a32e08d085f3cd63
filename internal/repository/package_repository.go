package repository

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/smartpark/carwash-api/internal/model"
)

// PackageRepo provides persistence for wash packages. Packages are created
// by an operator and read-only thereafter.
type PackageRepo struct{ db *sql.DB }

func NewPackageRepo(db *sql.DB) *PackageRepo { return &PackageRepo{db: db} }

// Create inserts a package and returns its generated number. The price is
// a decimal so the DECIMAL(10,2) column receives an exact value.
func (r *PackageRepo) Create(ctx context.Context, name string, description *string, price decimal.Decimal) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO packages (package_name, package_description, package_price) VALUES (?,?,?)",
		name, description, price.String())
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a package by its number. sql.ErrNoRows is returned when
// the package does not exist.
func (r *PackageRepo) GetByID(ctx context.Context, id uint64) (model.Package, error) {
	var p model.Package
	var desc sql.NullString
	err := r.db.QueryRowContext(ctx,
		"SELECT package_number,package_name,package_description,package_price,created_at FROM packages WHERE package_number=? LIMIT 1",
		id).Scan(&p.PackageNumber, &p.PackageName, &desc, &p.PackagePrice, &p.CreatedAt)
	if err != nil {
		return p, err
	}
	if desc.Valid {
		d := desc.String
		p.PackageDescription = &d
	}
	return p, nil
}

// List returns every package ordered by number.
func (r *PackageRepo) List(ctx context.Context) ([]model.Package, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT package_number,package_name,package_description,package_price,created_at FROM packages ORDER BY package_number")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	packages := make([]model.Package, 0)
	for rows.Next() {
		var p model.Package
		var desc sql.NullString
		if err := rows.Scan(&p.PackageNumber, &p.PackageName, &desc, &p.PackagePrice, &p.CreatedAt); err != nil {
			return nil, err
		}
		if desc.Valid {
			d := desc.String
			p.PackageDescription = &d
		}
		packages = append(packages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return packages, nil
}
