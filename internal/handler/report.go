package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/smartpark/carwash-api/internal/repository"
)

// ReportHandler serves the two read-only reports. Both are plain SELECTs
// over the settled data, so the router can put them behind the response
// cache without any invalidation concerns beyond the cache TTL.
type ReportHandler struct {
	Payments *repository.PaymentRepo
	Records  *repository.ServiceRecordRepo
	Cars     *repository.CarRepo
}

func NewReportHandler(payments *repository.PaymentRepo, records *repository.ServiceRecordRepo, cars *repository.CarRepo) *ReportHandler {
	return &ReportHandler{Payments: payments, Records: records, Cars: cars}
}

// PaymentsInRange handles GET /v1/reports/payments?startDate=..&endDate=..
// The end date is normalized to the end of its calendar day so a date-only
// end bound includes that whole day. The total is accumulated as a decimal,
// never as a float.
func (h *ReportHandler) PaymentsInRange(c echo.Context) error {
	startRaw := strings.TrimSpace(c.QueryParam("startDate"))
	endRaw := strings.TrimSpace(c.QueryParam("endDate"))
	if startRaw == "" || endRaw == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start date and end date are required"})
	}
	start, err := parseDate(startRaw)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date format"})
	}
	end, err := parseDate(endRaw)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date format"})
	}
	// A reversed range is not an error; the query simply matches nothing
	// and the report comes back empty.
	end = endOfDay(end)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	payments, err := h.Payments.ListByDateRange(ctx, start, end)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not generate report"})
	}

	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.AmountPaid)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"payments":    payments,
		"totalAmount": total,
		"count":       len(payments),
		"startDate":   start,
		"endDate":     end,
	})
}

// ServiceHistory handles GET /v1/reports/services/:plateNumber. Every
// service the car received is listed, paid or not; an unpaid service
// carries a null payment.
func (h *ReportHandler) ServiceHistory(c echo.Context) error {
	plate := strings.TrimSpace(c.Param("plateNumber"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	car, err := h.Cars.GetByPlate(ctx, plate)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not generate report"})
	}

	services, err := h.Records.ListByPlateWithPayment(ctx, plate)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not generate report"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"car":      car,
		"services": services,
		"count":    len(services),
	})
}
