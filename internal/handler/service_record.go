package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/smartpark/carwash-api/internal/model"
	"github.com/smartpark/carwash-api/internal/queue"
	"github.com/smartpark/carwash-api/internal/repository"
	queue_publisher "github.com/smartpark/carwash-api/internal/service"
)

// ServiceRecordHandler exposes the full CRUD surface for logged services.
// Creation stamps the record with the authenticated user; create and update
// re-validate both foreign keys so a record can never point at a missing
// car or package.
type ServiceRecordHandler struct {
	Records  *repository.ServiceRecordRepo
	Cars     *repository.CarRepo
	Packages *repository.PackageRepo
	Events   *queue_publisher.Publisher // nil disables event publishing
}

func NewServiceRecordHandler(records *repository.ServiceRecordRepo, cars *repository.CarRepo, packages *repository.PackageRepo, events *queue_publisher.Publisher) *ServiceRecordHandler {
	return &ServiceRecordHandler{Records: records, Cars: cars, Packages: packages, Events: events}
}

type serviceRecordReq struct {
	ServiceDate   string `json:"serviceDate"`
	PlateNumber   string `json:"plateNumber"`
	PackageNumber uint64 `json:"packageNumber"`
}

// Create handles POST /v1/service-packages. The service date defaults to
// the current time when unspecified.
func (h *ServiceRecordHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req serviceRecordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.PlateNumber = strings.TrimSpace(req.PlateNumber)
	if req.PlateNumber == "" || req.PackageNumber == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "plate number and package number are required"})
	}
	serviceDate := time.Now().UTC()
	if strings.TrimSpace(req.ServiceDate) != "" {
		serviceDate, err = parseDate(req.ServiceDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid service date"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Cars.GetByPlate(ctx, req.PlateNumber); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create service record"})
	}
	pkg, err := h.Packages.GetByID(ctx, req.PackageNumber)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "package not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create service record"})
	}

	rec := &model.ServiceRecord{
		ServiceDate:   serviceDate,
		PlateNumber:   req.PlateNumber,
		PackageNumber: req.PackageNumber,
		UserID:        userID,
	}
	if err := h.Records.Create(ctx, rec); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create service record"})
	}

	if h.Events != nil {
		_ = h.Events.PublishServiceLogged(c.Request().Context(), queue.ServiceLoggedEvent{
			RecordNumber:  rec.RecordNumber,
			PlateNumber:   rec.PlateNumber,
			PackageNumber: rec.PackageNumber,
			PackageName:   pkg.PackageName,
			ServiceDate:   rec.ServiceDate.Format(time.RFC3339),
			LoggedByUser:  userID,
		})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message":       "service record created successfully",
		"serviceRecord": rec,
	})
}

// List handles GET /v1/service-packages with car, package and operator
// eagerly attached.
func (h *ServiceRecordHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	records, err := h.Records.ListWithRelations(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch service records"})
	}
	return c.JSON(http.StatusOK, records)
}

// Get handles GET /v1/service-packages/:id.
func (h *ServiceRecordHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	rec, err := h.Records.GetByIDWithRelations(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "service record not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch service record"})
	}
	return c.JSON(http.StatusOK, rec)
}

// Update handles PUT /v1/service-packages/:id. It is a full replace of the
// date, car and package; both foreign keys are re-validated.
func (h *ServiceRecordHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req serviceRecordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.PlateNumber = strings.TrimSpace(req.PlateNumber)
	if strings.TrimSpace(req.ServiceDate) == "" || req.PlateNumber == "" || req.PackageNumber == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "all fields are required"})
	}
	serviceDate, err := parseDate(req.ServiceDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid service date"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Records.GetByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "service record not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update service record"})
	}
	if _, err := h.Cars.GetByPlate(ctx, req.PlateNumber); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update service record"})
	}
	if _, err := h.Packages.GetByID(ctx, req.PackageNumber); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "package not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update service record"})
	}

	if err := h.Records.Update(ctx, id, serviceDate, req.PlateNumber, req.PackageNumber); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "service record not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update service record"})
	}

	updated, err := h.Records.GetByIDWithRelations(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update service record"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":       "service record updated successfully",
		"serviceRecord": updated,
	})
}

// Delete handles DELETE /v1/service-packages/:id. Deletion is blocked with
// 409 when a payment references the record, so a payment is never orphaned.
func (h *ServiceRecordHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Records.Delete(ctx, id); err != nil {
		switch err {
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "service record not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "service record has a payment"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete service record"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "service record deleted successfully"})
}
