package services

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"jobboard_echo/internal/models"
)

// OrderStore persists durable payment orders. The unique index on txn_ref is
// the only concurrency guard the reconciler uses: Create propagates
// gorm.ErrDuplicatedKey so a racing caller can fall back to the update path.
type OrderStore struct {
	db *gorm.DB
}

func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{db: db}
}

func (s *OrderStore) Create(ctx context.Context, order *models.PaymentOrder) error {
	return s.db.WithContext(ctx).Create(order).Error
}

// FindByTxnRef returns the order for the reference, or nil when none exists
func (s *OrderStore) FindByTxnRef(ctx context.Context, txnRef string) (*models.PaymentOrder, error) {
	var order models.PaymentOrder
	err := s.db.WithContext(ctx).Where("txn_ref = ?", txnRef).First(&order).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (s *OrderStore) FindByID(ctx context.Context, id uint) (*models.PaymentOrder, error) {
	var order models.PaymentOrder
	if err := s.db.WithContext(ctx).First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus overwrites status and gateway metadata for an existing order.
// The non-downgrade rule is enforced by the reconciler, not here.
func (s *OrderStore) UpdateStatus(ctx context.Context, order *models.PaymentOrder, status models.OrderStatus, meta json.RawMessage) error {
	updates := map[string]interface{}{"status": status}
	if len(meta) > 0 {
		updates["gateway_meta"] = meta
	}
	err := s.db.WithContext(ctx).Model(order).Updates(updates).Error
	if err != nil {
		return err
	}
	order.Status = status
	if len(meta) > 0 {
		order.GatewayMeta = meta
	}
	return nil
}

// SetResource records the provisioned resource reference, guarded so it can
// only ever be set once. Returns false when another approval already won.
func (s *OrderStore) SetResource(ctx context.Context, orderID uint, bannerID, jobPostID *uint) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.PaymentOrder{}).
		Where("id = ? AND banner_id IS NULL AND job_post_id IS NULL", orderID).
		Updates(map[string]interface{}{"banner_id": bannerID, "job_post_id": jobPostID})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
