package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/smartpark/carwash-api/internal/repository"
)

func carRow(plate string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"plate_number", "car_type", "car_size", "driver_name", "phone_number", "created_at"}).
		AddRow(plate, "Sedan", "Medium", "John Doe", "+254700000000", time.Now().UTC())
}

func TestCarCreateSuccess(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewCarHandler(repository.NewCarRepo(db))

	mock.ExpectExec("INSERT INTO cars").
		WithArgs("RAA123B", "Sedan", "Medium", "John Doe", "+254700000000").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT plate_number,car_type,car_size,driver_name,phone_number,created_at FROM cars WHERE plate_number=\\?").
		WithArgs("RAA123B").
		WillReturnRows(carRow("RAA123B"))

	c, rec := newJSONContext(http.MethodPost, "/v1/cars",
		`{"plateNumber":"RAA123B","carType":"Sedan","carSize":"Medium","driverName":"John Doe","phoneNumber":"+254700000000"}`)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Message string `json:"message"`
		Car     struct {
			PlateNumber string `json:"plateNumber"`
		} `json:"car"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "car registered successfully", resp.Message)
	require.Equal(t, "RAA123B", resp.Car.PlateNumber)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCarCreateInvalidSize(t *testing.T) {
	db, _ := newMockDB(t)
	h := NewCarHandler(repository.NewCarRepo(db))

	c, rec := newJSONContext(http.MethodPost, "/v1/cars",
		`{"plateNumber":"RAA123B","carType":"Sedan","carSize":"Gigantic","driverName":"John Doe","phoneNumber":"+254700000000"}`)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid car size")
}

func TestCarCreateInvalidPhone(t *testing.T) {
	db, _ := newMockDB(t)
	h := NewCarHandler(repository.NewCarRepo(db))

	for _, phone := range []string{"12345", "not-a-phone", "+2547000000000000000"} {
		c, rec := newJSONContext(http.MethodPost, "/v1/cars",
			`{"plateNumber":"RAA123B","carType":"Sedan","carSize":"Medium","driverName":"John Doe","phoneNumber":"`+phone+`"}`)
		require.NoError(t, h.Create(c))
		require.Equal(t, http.StatusBadRequest, rec.Code, phone)
		require.Contains(t, rec.Body.String(), "invalid phone number format")
	}
}

func TestCarCreateDuplicatePlate(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewCarHandler(repository.NewCarRepo(db))

	mock.ExpectExec("INSERT INTO cars").
		WithArgs("RAA123B", "Sedan", "Medium", "John Doe", "+254700000000").
		WillReturnError(errDuplicate("cars.PRIMARY"))

	c, rec := newJSONContext(http.MethodPost, "/v1/cars",
		`{"plateNumber":"RAA123B","carType":"Sedan","carSize":"Medium","driverName":"John Doe","phoneNumber":"+254700000000"}`)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "already exists")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCarGetNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewCarHandler(repository.NewCarRepo(db))

	mock.ExpectQuery("SELECT plate_number,car_type,car_size,driver_name,phone_number,created_at FROM cars WHERE plate_number=\\?").
		WithArgs("NOPE").
		WillReturnError(sql.ErrNoRows)

	c, rec := newGetContext("/v1/cars/NOPE")
	c.SetParamNames("id")
	c.SetParamValues("NOPE")
	require.NoError(t, h.Get(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "car not found")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCarList(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewCarHandler(repository.NewCarRepo(db))

	mock.ExpectQuery("SELECT plate_number,car_type,car_size,driver_name,phone_number,created_at FROM cars ORDER BY created_at DESC").
		WillReturnRows(carRow("RAA123B").AddRow("RBB456C", "SUV", "SUV", "Jane Doe", "0712345678", time.Now().UTC()))

	c, rec := newGetContext("/v1/cars")
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var cars []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cars))
	require.Len(t, cars, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}
