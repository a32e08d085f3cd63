package model

import "time"

// Car mirrors the `cars` table.  The plate number is the primary key; it is
// assigned by an external authority and never generated.  A car is created
// once and is immutable afterwards.
type Car struct {
	PlateNumber string    `json:"plateNumber"` // cars.plate_number (primary key)
	CarType     string    `json:"carType"`     // cars.car_type
	CarSize     string    `json:"carSize"`     // cars.car_size (Small/Medium/Large/SUV/Van/Truck)
	DriverName  string    `json:"driverName"`  // cars.driver_name
	PhoneNumber string    `json:"phoneNumber"` // cars.phone_number (optional "+" then 10-15 digits)
	CreatedAt   time.Time `json:"createdAt"`   // cars.created_at
}

// CarSizes enumerates the accepted values for Car.CarSize.
var CarSizes = map[string]bool{
	"Small":  true,
	"Medium": true,
	"Large":  true,
	"SUV":    true,
	"Van":    true,
	"Truck":  true,
}
