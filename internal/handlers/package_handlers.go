package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"jobboard_echo/internal/models"
	"jobboard_echo/internal/services"
)

// PackageHandler manages the purchasable package catalog (admin only,
// except the public listing used by checkout pages).
type PackageHandler struct {
	db      *gorm.DB
	catalog *services.PackageCatalog
}

func NewPackageHandler(db *gorm.DB, catalog *services.PackageCatalog) *PackageHandler {
	return &PackageHandler{db: db, catalog: catalog}
}

type packageRequest struct {
	Name         string             `json:"name"`
	Kind         models.PackageKind `json:"kind"`
	Price        int64              `json:"price"`
	DurationDays int                `json:"duration_days"`
	Position     string             `json:"position"`
	SlotLimit    int                `json:"slot_limit"`
	Active       *bool              `json:"active"`
}

func (r packageRequest) validate() error {
	if r.Name == "" {
		return &services.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if r.Kind != models.PackageKindBanner && r.Kind != models.PackageKindJobFeature {
		return &services.ValidationError{Field: "kind", Reason: "must be banner or job_feature"}
	}
	if r.Price <= 0 {
		return &services.ValidationError{Field: "price", Reason: "must be positive"}
	}
	if r.DurationDays <= 0 {
		return &services.ValidationError{Field: "duration_days", Reason: "must be positive"}
	}
	return nil
}

// ListPackages returns active packages, optionally filtered by kind
func (h *PackageHandler) ListPackages(c echo.Context) error {
	query := h.db.Where("active = ?", true)
	if kind := c.QueryParam("kind"); kind != "" {
		query = query.Where("kind = ?", kind)
	}

	var packages []models.Package
	if err := query.Order("price asc").Find(&packages).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusOK, packages)
}

// CreatePackage adds a catalog entry
func (h *PackageHandler) CreatePackage(c echo.Context) error {
	var req packageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := req.validate(); err != nil {
		return err
	}

	pkg := models.Package{
		Name:         req.Name,
		Kind:         req.Kind,
		Price:        req.Price,
		DurationDays: req.DurationDays,
		Position:     req.Position,
		SlotLimit:    req.SlotLimit,
		Active:       true,
	}
	if req.Active != nil {
		pkg.Active = *req.Active
	}
	if err := h.db.Create(&pkg).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, pkg)
}

// UpdatePackage edits a catalog entry and drops its cache entry. Orders
// already reconciled keep their snapshot and are unaffected by the edit.
func (h *PackageHandler) UpdatePackage(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid package ID")
	}

	var pkg models.Package
	if err := h.db.First(&pkg, uint(id)).Error; err != nil {
		return err
	}

	var req packageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := req.validate(); err != nil {
		return err
	}

	pkg.Name = req.Name
	pkg.Kind = req.Kind
	pkg.Price = req.Price
	pkg.DurationDays = req.DurationDays
	pkg.Position = req.Position
	pkg.SlotLimit = req.SlotLimit
	if req.Active != nil {
		pkg.Active = *req.Active
	}
	if err := h.db.Save(&pkg).Error; err != nil {
		return err
	}

	h.catalog.Invalidate(c.Request().Context(), pkg.ID)
	return c.JSON(http.StatusOK, pkg)
}
