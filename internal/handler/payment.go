package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/smartpark/carwash-api/internal/model"
	"github.com/smartpark/carwash-api/internal/queue"
	"github.com/smartpark/carwash-api/internal/repository"
	queue_publisher "github.com/smartpark/carwash-api/internal/service"
)

// PaymentHandler records and serves payments. A service record takes at
// most one payment; the conflict is caught by a pre-check for the friendly
// message and by the UNIQUE key for the race.
type PaymentHandler struct {
	Payments *repository.PaymentRepo
	Records  *repository.ServiceRecordRepo
	Events   *queue_publisher.Publisher // nil disables event publishing
}

func NewPaymentHandler(payments *repository.PaymentRepo, records *repository.ServiceRecordRepo, events *queue_publisher.Publisher) *PaymentHandler {
	return &PaymentHandler{Payments: payments, Records: records, Events: events}
}

type createPaymentReq struct {
	AmountPaid   decimal.Decimal `json:"amountPaid"`
	PaymentDate  string          `json:"paymentDate"`
	RecordNumber uint64          `json:"recordNumber"`
}

// Create handles POST /v1/payments. The payment date defaults to now.
func (h *PaymentHandler) Create(c echo.Context) error {
	var req createPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.RecordNumber == 0 || req.AmountPaid.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount paid and record number are required"})
	}
	if req.AmountPaid.Sign() <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount paid must be positive"})
	}
	paymentDate := time.Now().UTC()
	if strings.TrimSpace(req.PaymentDate) != "" {
		var err error
		paymentDate, err = parseDate(req.PaymentDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment date"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	rec, err := h.Records.GetByID(ctx, req.RecordNumber)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "service record not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not record payment"})
	}
	paid, err := h.Payments.ExistsByRecord(ctx, req.RecordNumber)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not record payment"})
	}
	if paid {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment already exists for this service record"})
	}

	payment := &model.Payment{
		AmountPaid:   req.AmountPaid,
		PaymentDate:  paymentDate,
		RecordNumber: req.RecordNumber,
	}
	if err := h.Payments.Create(ctx, payment); err != nil {
		if err == repository.ErrPaymentExists {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment already exists for this service record"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not record payment"})
	}

	if h.Events != nil {
		_ = h.Events.PublishPaymentRecorded(c.Request().Context(), queue.PaymentRecordedEvent{
			PaymentNumber: payment.PaymentNumber,
			RecordNumber:  payment.RecordNumber,
			PlateNumber:   rec.PlateNumber,
			AmountPaid:    payment.AmountPaid.String(),
			PaymentDate:   payment.PaymentDate.Format(time.RFC3339),
		})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "payment recorded successfully",
		"payment": payment,
	})
}

// List handles GET /v1/payments with service record and package attached.
func (h *PaymentHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	payments, err := h.Payments.ListWithRelations(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch payments"})
	}
	return c.JSON(http.StatusOK, payments)
}

// Get handles GET /v1/payments/:id.
func (h *PaymentHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	payment, err := h.Payments.GetByIDWithRelations(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "payment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch payment"})
	}
	return c.JSON(http.StatusOK, payment)
}
