package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"jobboard_echo/internal/models"
)

// BannerHandler serves the public read path for provisioned banners
type BannerHandler struct {
	db *gorm.DB
}

func NewBannerHandler(db *gorm.DB) *BannerHandler {
	return &BannerHandler{db: db}
}

// ListActive returns the currently live banners, optionally for one position
func (h *BannerHandler) ListActive(c echo.Context) error {
	now := time.Now()
	query := h.db.
		Where("approved = ? AND active = ?", true, true).
		Where("start_date <= ? AND end_date > ?", now, now)
	if position := c.QueryParam("position"); position != "" {
		query = query.Where("position = ?", position)
	}

	var banners []models.Banner
	if err := query.Order("start_date desc").Find(&banners).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusOK, banners)
}
