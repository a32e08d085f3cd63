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

func newReportHandler(db *sql.DB) *ReportHandler {
	return NewReportHandler(
		repository.NewPaymentRepo(db),
		repository.NewServiceRecordRepo(db),
		repository.NewCarRepo(db),
	)
}

var paymentReportColumns = []string{
	"payment_number", "amount_paid", "payment_date", "record_number", "p_created_at",
	"s_record_number", "service_date", "s_plate_number", "package_number", "user_id",
	"k_package_number", "package_name", "package_description", "package_price", "k_created_at",
	"plate_number", "car_type", "car_size", "driver_name", "phone_number", "c_created_at",
}

func paymentReportRow(rows *sqlmock.Rows, paymentNumber uint64, amount string, paymentDate time.Time) *sqlmock.Rows {
	now := time.Now().UTC()
	return rows.AddRow(
		paymentNumber, amount, paymentDate, 11, now,
		11, now, "RAA123B", 2, 9,
		2, "Premium Wash", nil, "3000.00", now,
		"RAA123B", "Sedan", "Medium", "John Doe", "+254700000000", now,
	)
}

// The end date is inclusive of its whole calendar day and the total is the
// exact decimal sum, never a float.
func TestReportPaymentsInRange(t *testing.T) {
	db, mock := newMockDB(t)
	h := newReportHandler(db)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 23, 59, 59, 999000000, time.UTC)

	rows := sqlmock.NewRows(paymentReportColumns)
	rows = paymentReportRow(rows, 4, "3000.00", time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC))
	rows = paymentReportRow(rows, 5, "2500.00", time.Date(2024, 1, 31, 18, 30, 0, 0, time.UTC))

	mock.ExpectQuery("FROM payments p").
		WithArgs(start, end).
		WillReturnRows(rows)

	c, rec := newGetContext("/v1/reports/payments?startDate=2024-01-01&endDate=2024-01-31")
	require.NoError(t, h.PaymentsInRange(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Payments    []json.RawMessage `json:"payments"`
		TotalAmount string            `json:"totalAmount"`
		Count       int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Payments, 2)
	require.Equal(t, 2, resp.Count)
	require.Equal(t, "5500.00", resp.TotalAmount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportPaymentsMissingDates(t *testing.T) {
	db, _ := newMockDB(t)
	h := newReportHandler(db)

	c, rec := newGetContext("/v1/reports/payments?startDate=2024-01-01")
	require.NoError(t, h.PaymentsInRange(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "start date and end date are required")
}

func TestReportPaymentsBadDate(t *testing.T) {
	db, _ := newMockDB(t)
	h := newReportHandler(db)

	c, rec := newGetContext("/v1/reports/payments?startDate=yesterday&endDate=2024-01-31")
	require.NoError(t, h.PaymentsInRange(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid date format")
}

// A reversed range matches nothing and produces an empty report, not an
// error.
func TestReportPaymentsReversedRange(t *testing.T) {
	db, mock := newMockDB(t)
	h := newReportHandler(db)

	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 1, 23, 59, 59, 999000000, time.UTC)
	mock.ExpectQuery("FROM payments p").
		WithArgs(start, end).
		WillReturnRows(sqlmock.NewRows(paymentReportColumns))

	c, rec := newGetContext("/v1/reports/payments?startDate=2024-02-01&endDate=2024-01-01")
	require.NoError(t, h.PaymentsInRange(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Payments    []json.RawMessage `json:"payments"`
		TotalAmount string            `json:"totalAmount"`
		Count       int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Empty(t, resp.Payments)
	require.Equal(t, 0, resp.Count)
	require.Equal(t, "0", resp.TotalAmount)
	require.NoError(t, mock.ExpectationsWereMet())
}

var historyColumns = []string{
	"record_number", "service_date", "plate_number", "package_number", "user_id", "created_at", "updated_at",
	"k_package_number", "package_name", "package_description", "package_price", "k_created_at",
	"payment_number", "amount_paid", "payment_date", "p_record_number", "p_created_at",
}

// Unpaid services still appear in the history, with a null payment.
func TestReportServiceHistory(t *testing.T) {
	db, mock := newMockDB(t)
	h := newReportHandler(db)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT plate_number,car_type,car_size,driver_name,phone_number,created_at FROM cars").
		WithArgs("RAA123B").
		WillReturnRows(carRow("RAA123B"))
	mock.ExpectQuery("LEFT JOIN payments p").
		WithArgs("RAA123B").
		WillReturnRows(sqlmock.NewRows(historyColumns).
			AddRow(11, now, "RAA123B", 2, 9, now, now,
				2, "Premium Wash", nil, "3000.00", now,
				4, "3000.00", now, 11, now).
			AddRow(12, now, "RAA123B", 2, 9, now, now,
				2, "Premium Wash", nil, "3000.00", now,
				nil, nil, nil, nil, nil))

	c, rec := newGetContext("/v1/reports/services/RAA123B")
	c.SetParamNames("plateNumber")
	c.SetParamValues("RAA123B")
	require.NoError(t, h.ServiceHistory(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Car      map[string]any `json:"car"`
		Services []struct {
			RecordNumber uint64          `json:"recordNumber"`
			Payment      json.RawMessage `json:"payment"`
		} `json:"services"`
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Count)
	require.Len(t, resp.Services, 2)
	require.NotEqual(t, "null", string(resp.Services[0].Payment))
	require.Equal(t, "null", string(resp.Services[1].Payment))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportServiceHistoryCarNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	h := newReportHandler(db)

	mock.ExpectQuery("SELECT plate_number,car_type,car_size,driver_name,phone_number,created_at FROM cars").
		WithArgs("GHOST").
		WillReturnError(sql.ErrNoRows)

	c, rec := newGetContext("/v1/reports/services/GHOST")
	c.SetParamNames("plateNumber")
	c.SetParamValues("GHOST")
	require.NoError(t, h.ServiceHistory(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "car not found")
	require.NoError(t, mock.ExpectationsWereMet())
}
