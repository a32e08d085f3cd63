package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/smartpark/carwash-api/internal/repository"
)

// PackageHandler exposes wash-package endpoints.
type PackageHandler struct {
	Packages *repository.PackageRepo
}

func NewPackageHandler(packages *repository.PackageRepo) *PackageHandler {
	return &PackageHandler{Packages: packages}
}

type createPackageReq struct {
	PackageName        string          `json:"packageName"`
	PackageDescription *string         `json:"packageDescription"`
	PackagePrice       decimal.Decimal `json:"packagePrice"`
}

// Create handles POST /v1/packages. The price must be strictly positive;
// it is bound as a decimal so "49.99" stays exactly 49.99.
func (h *PackageHandler) Create(c echo.Context) error {
	var req createPackageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.PackageName = strings.TrimSpace(req.PackageName)
	if req.PackageName == "" || req.PackagePrice.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "package name and price are required"})
	}
	if req.PackagePrice.Sign() <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "package price must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	id, err := h.Packages.Create(ctx, req.PackageName, req.PackageDescription, req.PackagePrice)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create package"})
	}
	created, err := h.Packages.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create package"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "package created successfully",
		"package": created,
	})
}

// List handles GET /v1/packages.
func (h *PackageHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	packages, err := h.Packages.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch packages"})
	}
	return c.JSON(http.StatusOK, packages)
}

// Get handles GET /v1/packages/:id.
func (h *PackageHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	pkg, err := h.Packages.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "package not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch package"})
	}
	return c.JSON(http.StatusOK, pkg)
}
