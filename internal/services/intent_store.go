package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"jobboard_echo/internal/models"
)

// IntentStore persists ephemeral payment intents keyed by transaction
// reference. Deletes are hard deletes: a consumed intent leaves no row.
type IntentStore struct {
	db *gorm.DB
}

func NewIntentStore(db *gorm.DB) *IntentStore {
	return &IntentStore{db: db}
}

func (s *IntentStore) Create(ctx context.Context, intent *models.PaymentIntent) error {
	return s.db.WithContext(ctx).Create(intent).Error
}

// FindByTxnRef returns the intent for the reference, or nil when none exists
func (s *IntentStore) FindByTxnRef(ctx context.Context, txnRef string) (*models.PaymentIntent, error) {
	var intent models.PaymentIntent
	err := s.db.WithContext(ctx).Where("txn_ref = ?", txnRef).First(&intent).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &intent, nil
}

func (s *IntentStore) DeleteByTxnRef(ctx context.Context, txnRef string) error {
	return s.db.WithContext(ctx).Where("txn_ref = ?", txnRef).Delete(&models.PaymentIntent{}).Error
}

// DeleteStale removes abandoned intents created before the cutoff and
// returns how many were swept. Intents whose transaction already produced an
// order were deleted at reconciliation, so no existence check is needed here.
func (s *IntentStore) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.PaymentIntent{})
	return res.RowsAffected, res.Error
}
