package services

import (
	"context"

	"gorm.io/gorm"

	"jobboard_echo/internal/models"
)

// OrderFilter narrows the admin order listing
type OrderFilter struct {
	Status   models.OrderStatus
	Kind     models.PackageKind
	Page     int
	PageSize int
}

// Pagination describes the page that was actually returned
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
	TotalCount int64 `json:"total_count"`
}

// UserOrderView is a payer-facing order enriched with the linked banner's
// current approval/active state, when one exists.
type UserOrderView struct {
	Order  models.PaymentOrder `json:"order"`
	Banner *models.Banner      `json:"banner,omitempty"`
}

// OrderQueryService serves the read-only listing and detail paths over
// orders. Not part of the reconciliation core.
type OrderQueryService struct {
	db *gorm.DB
}

func NewOrderQueryService(db *gorm.DB) *OrderQueryService {
	return &OrderQueryService{db: db}
}

// List returns a page of orders matching the filter, newest first
func (s *OrderQueryService) List(ctx context.Context, f OrderFilter) ([]models.PaymentOrder, Pagination, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > 100 {
		f.PageSize = 20
	}

	query := s.db.WithContext(ctx).Model(&models.PaymentOrder{})
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Kind != "" {
		query = query.Joins("JOIN packages ON packages.id = payment_orders.package_id").
			Where("packages.kind = ?", f.Kind)
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, Pagination{}, err
	}

	totalPages := int((totalCount + int64(f.PageSize) - 1) / int64(f.PageSize))
	if totalPages == 0 {
		totalPages = 1
	}
	if f.Page > totalPages {
		f.Page = totalPages
	}
	offset := (f.Page - 1) * f.PageSize

	var orders []models.PaymentOrder
	err := query.Preload("Package").Preload("Company").
		Order("payment_orders.created_at desc").
		Limit(f.PageSize).Offset(offset).
		Find(&orders).Error
	if err != nil {
		return nil, Pagination{}, err
	}

	return orders, Pagination{
		Page:       f.Page,
		PageSize:   f.PageSize,
		TotalPages: totalPages,
		TotalCount: totalCount,
	}, nil
}

// ListByUser returns all orders of one payer, newest first, each enriched
// with its linked banner when provisioning already happened.
func (s *OrderQueryService) ListByUser(ctx context.Context, userID uint) ([]UserOrderView, error) {
	var orders []models.PaymentOrder
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	bannerIDs := make([]uint, 0, len(orders))
	for _, o := range orders {
		if o.BannerID != nil {
			bannerIDs = append(bannerIDs, *o.BannerID)
		}
	}

	banners := map[uint]models.Banner{}
	if len(bannerIDs) > 0 {
		var rows []models.Banner
		if err := s.db.WithContext(ctx).Where("id IN ?", bannerIDs).Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, b := range rows {
			banners[b.ID] = b
		}
	}

	views := make([]UserOrderView, 0, len(orders))
	for _, o := range orders {
		view := UserOrderView{Order: o}
		if o.BannerID != nil {
			if b, ok := banners[*o.BannerID]; ok {
				banner := b
				view.Banner = &banner
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// Get returns one order with its package and company preloaded
func (s *OrderQueryService) Get(ctx context.Context, id uint) (*models.PaymentOrder, error) {
	var order models.PaymentOrder
	err := s.db.WithContext(ctx).Preload("Package").Preload("Company").First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}
