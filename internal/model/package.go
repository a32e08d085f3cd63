package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Package mirrors the `packages` table.  A package is a named wash service
// with a strictly positive price.  Packages are created by an operator and
// read-only thereafter.  Price is DECIMAL(10,2) in the database and travels
// as decimal.Decimal so monetary values never round through float64.
type Package struct {
	PackageNumber      uint64          `json:"packageNumber"`      // packages.package_number (auto increment)
	PackageName        string          `json:"packageName"`        // packages.package_name
	PackageDescription *string         `json:"packageDescription"` // packages.package_description (nullable)
	PackagePrice       decimal.Decimal `json:"packagePrice"`       // packages.package_price
	CreatedAt          time.Time       `json:"createdAt"`          // packages.created_at
}
