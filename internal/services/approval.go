package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"jobboard_echo/internal/models"
)

// ProvisionResult is the resource created by an approval. Exactly one of
// Banner or JobPost is set, matching the order's package kind.
type ProvisionResult struct {
	Order   *models.PaymentOrder `json:"order"`
	Banner  *models.Banner       `json:"banner,omitempty"`
	JobPost *models.JobPost      `json:"job_post,omitempty"`
}

// ApprovalService turns a paid order into its purchased resource exactly
// once. Duration and placement come from the package snapshot frozen at
// reconciliation time, never from the live catalog.
type ApprovalService struct {
	db *gorm.DB
}

func NewApprovalService(db *gorm.DB) *ApprovalService {
	return &ApprovalService{db: db}
}

// ApproveAndProvision checks the order's preconditions in a fixed sequence
// (exists, paid, not yet provisioned) and creates the resource. The resource
// insert and the order update run in one transaction, with the guarded
// resource-reference update as the exactly-once gate: a second concurrent
// approval rolls back its resource and fails with AlreadyProvisioned.
func (s *ApprovalService) ApproveAndProvision(ctx context.Context, orderID uint) (*ProvisionResult, error) {
	order, err := NewOrderStore(s.db).FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &PreconditionError{Reason: ReasonNotFound, OrderID: orderID}
		}
		return nil, err
	}
	if order.Status != models.OrderStatusPaid {
		return nil, &PreconditionError{Reason: ReasonNotPaid, OrderID: orderID}
	}
	if order.Provisioned() {
		return nil, &PreconditionError{Reason: ReasonAlreadyProvisioned, OrderID: orderID}
	}

	snap, err := order.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("order %d has an unreadable package snapshot: %w", orderID, err)
	}

	start := time.Now()
	end := start.AddDate(0, 0, snap.DurationDays)

	result := &ProvisionResult{Order: order}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		switch snap.Kind {
		case models.PackageKindBanner:
			banner, err := s.provisionBanner(ctx, tx, order, snap, start, end)
			if err != nil {
				return err
			}
			result.Banner = banner
		case models.PackageKindJobFeature:
			jobPost, err := s.provisionFeature(ctx, tx, order, end)
			if err != nil {
				return err
			}
			result.JobPost = jobPost
		default:
			return fmt.Errorf("order %d: unknown package kind %q", orderID, snap.Kind)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Uint("order_id", order.ID).Str("kind", string(snap.Kind)).
		Time("valid_until", end).Msg("order approved and provisioned")
	return result, nil
}

func (s *ApprovalService) provisionBanner(ctx context.Context, tx *gorm.DB, order *models.PaymentOrder, snap models.PackageSnapshot, start, end time.Time) (*models.Banner, error) {
	var draft models.BannerDraft
	if err := json.Unmarshal(order.PayloadSnapshot, &draft); err != nil {
		return nil, fmt.Errorf("order %d has an unreadable banner draft: %w", order.ID, err)
	}

	banner := &models.Banner{
		CompanyID: order.CompanyID,
		PackageID: order.PackageID,
		Title:     draft.Title,
		ImageURL:  draft.ImageURL,
		TargetURL: draft.TargetURL,
		Position:  snap.Position,
		StartDate: start,
		EndDate:   end,
		Approved:  true,
		Active:    true,
	}
	if err := tx.WithContext(ctx).Create(banner).Error; err != nil {
		return nil, err
	}

	won, err := NewOrderStore(tx).SetResource(ctx, order.ID, &banner.ID, nil)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, &PreconditionError{Reason: ReasonAlreadyProvisioned, OrderID: order.ID}
	}
	order.BannerID = &banner.ID
	return banner, nil
}

func (s *ApprovalService) provisionFeature(ctx context.Context, tx *gorm.DB, order *models.PaymentOrder, end time.Time) (*models.JobPost, error) {
	var draft models.FeatureDraft
	if err := json.Unmarshal(order.PayloadSnapshot, &draft); err != nil {
		return nil, fmt.Errorf("order %d has an unreadable feature draft: %w", order.ID, err)
	}

	var jobPost models.JobPost
	if err := tx.WithContext(ctx).First(&jobPost, draft.JobPostID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ValidationError{Field: "job_post_id", Reason: fmt.Sprintf("job post %d does not exist", draft.JobPostID)}
		}
		return nil, err
	}

	jobPost.FeaturedUntil = &end
	if err := tx.WithContext(ctx).Save(&jobPost).Error; err != nil {
		return nil, err
	}

	won, err := NewOrderStore(tx).SetResource(ctx, order.ID, nil, &jobPost.ID)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, &PreconditionError{Reason: ReasonAlreadyProvisioned, OrderID: order.ID}
	}
	order.JobPostID = &jobPost.ID
	return &jobPost, nil
}
