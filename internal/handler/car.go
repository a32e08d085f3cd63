package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/smartpark/carwash-api/internal/model"
	"github.com/smartpark/carwash-api/internal/repository"
)

// CarHandler exposes car registration and lookup endpoints.
type CarHandler struct {
	Cars *repository.CarRepo
}

func NewCarHandler(cars *repository.CarRepo) *CarHandler {
	return &CarHandler{Cars: cars}
}

type createCarReq struct {
	PlateNumber string `json:"plateNumber"`
	CarType     string `json:"carType"`
	CarSize     string `json:"carSize"`
	DriverName  string `json:"driverName"`
	PhoneNumber string `json:"phoneNumber"`
}

// Create handles POST /v1/cars and registers a new car.
func (h *CarHandler) Create(c echo.Context) error {
	var req createCarReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.PlateNumber = strings.TrimSpace(req.PlateNumber)
	req.CarType = strings.TrimSpace(req.CarType)
	req.CarSize = strings.TrimSpace(req.CarSize)
	req.DriverName = strings.TrimSpace(req.DriverName)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	if req.PlateNumber == "" || req.CarType == "" || req.CarSize == "" || req.DriverName == "" || req.PhoneNumber == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "all fields are required"})
	}
	if !model.CarSizes[req.CarSize] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid car size"})
	}
	if !phonePattern.MatchString(req.PhoneNumber) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid phone number format"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	car := &model.Car{
		PlateNumber: req.PlateNumber,
		CarType:     req.CarType,
		CarSize:     req.CarSize,
		DriverName:  req.DriverName,
		PhoneNumber: req.PhoneNumber,
	}
	if err := h.Cars.Create(ctx, car); err != nil {
		if err == repository.ErrCarExists {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "car with this plate number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not register car"})
	}

	// Read the row back so the response carries the database timestamps.
	created, err := h.Cars.GetByPlate(ctx, car.PlateNumber)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not register car"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "car registered successfully",
		"car":     created,
	})
}

// List handles GET /v1/cars and returns every registered car.
func (h *CarHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	cars, err := h.Cars.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch cars"})
	}
	return c.JSON(http.StatusOK, cars)
}

// Get handles GET /v1/cars/:id where :id is the plate number.
func (h *CarHandler) Get(c echo.Context) error {
	plate := strings.TrimSpace(c.Param("id"))
	if plate == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "plate number is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	car, err := h.Cars.GetByPlate(ctx, plate)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch car"})
	}
	return c.JSON(http.StatusOK, car)
}
