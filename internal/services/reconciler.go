package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"jobboard_echo/internal/models"
)

// ReconcileOutcome describes what a reconciliation call actually did
type ReconcileOutcome string

const (
	// OutcomeCreated: first PAID observation, order created from the intent
	OutcomeCreated ReconcileOutcome = "created"
	// OutcomeUpdated: order existed, status/meta updated in place
	OutcomeUpdated ReconcileOutcome = "updated"
	// OutcomeIgnored: order already paid, negative callback discarded
	OutcomeIgnored ReconcileOutcome = "ignored"
	// OutcomeNoop: negative callback with no order and nothing to create
	OutcomeNoop ReconcileOutcome = "noop"
)

// ReconcileResult carries the order state after reconciliation.
// Order is nil only for OutcomeNoop.
type ReconcileResult struct {
	Outcome ReconcileOutcome     `json:"outcome"`
	Order   *models.PaymentOrder `json:"order,omitempty"`
}

// Reconciler merges a verified gateway callback into durable order state,
// exactly once per transaction reference. It is safe to call from both the
// browser return endpoint and the client verify endpoint for the same
// reference, concurrently or duplicated, in any order.
type Reconciler struct {
	db      *gorm.DB
	catalog *PackageCatalog
}

func NewReconciler(db *gorm.DB, catalog *PackageCatalog) *Reconciler {
	return &Reconciler{db: db, catalog: catalog}
}

// Reconcile applies a verified callback for txnRef. Status must be one of
// the order statuses; anything but paid is treated as a negative outcome.
// Callers must verify the callback signature before calling this.
func (r *Reconciler) Reconcile(ctx context.Context, txnRef string, status models.OrderStatus, meta json.RawMessage) (*ReconcileResult, error) {
	if txnRef == "" {
		return nil, &ValidationError{Field: "txn_ref", Reason: "must not be empty"}
	}

	orders := NewOrderStore(r.db)
	existing, err := orders.FindByTxnRef(ctx, txnRef)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return r.applyUpdate(ctx, orders, existing, status, meta)
	}

	if status != models.OrderStatusPaid {
		// Failed/abandoned attempt with no prior order: leave no trace.
		// The intent, if any, is kept so a late success can still reconcile.
		log.Info().Str("txn_ref", txnRef).Str("status", string(status)).
			Msg("negative callback without order, nothing to do")
		return &ReconcileResult{Outcome: OutcomeNoop}, nil
	}

	created, err := r.createFromIntent(ctx, txnRef, meta)
	if err == nil {
		log.Info().Str("txn_ref", txnRef).Uint("order_id", created.ID).
			Int64("amount", created.Amount).Msg("order created from intent")
		return &ReconcileResult{Outcome: OutcomeCreated, Order: created}, nil
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost the create race against the other entry point. The winner
		// already reconciled; degrade silently to the update path.
		existing, ferr := orders.FindByTxnRef(ctx, txnRef)
		if ferr != nil {
			return nil, ferr
		}
		if existing == nil {
			return nil, err
		}
		return r.applyUpdate(ctx, orders, existing, status, meta)
	}

	var integrity *DataIntegrityError
	if errors.As(err, &integrity) {
		log.Error().Str("txn_ref", txnRef).
			Msg("paid callback with no intent and no order, possible forged reference or expired intent")
	}
	return nil, err
}

// createFromIntent builds the durable order from the pending intent. The
// order insert and the intent delete run in one transaction so a crash
// cannot lose the purchase record between them.
func (r *Reconciler) createFromIntent(ctx context.Context, txnRef string, meta json.RawMessage) (*models.PaymentOrder, error) {
	var created *models.PaymentOrder
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		intents := NewIntentStore(tx)
		intent, err := intents.FindByTxnRef(ctx, txnRef)
		if err != nil {
			return err
		}
		if intent == nil {
			return &DataIntegrityError{TxnRef: txnRef}
		}

		// Amount and duration come from the catalog, never from the
		// client-originated intent payload.
		pkg, err := r.catalog.GetPackage(ctx, intent.PackageID)
		if err != nil {
			return err
		}
		snapRaw, err := json.Marshal(models.PackageSnapshot{
			Price:        pkg.Price,
			DurationDays: pkg.DurationDays,
			Position:     pkg.Position,
			Kind:         pkg.Kind,
		})
		if err != nil {
			return err
		}

		order := &models.PaymentOrder{
			TxnRef:          txnRef,
			Status:          models.OrderStatusPaid,
			Amount:          pkg.Price,
			UserID:          intent.UserID,
			CompanyID:       intent.CompanyID,
			PackageID:       intent.PackageID,
			PackageSnapshot: snapRaw,
			PayloadSnapshot: intent.Payload,
			GatewayMeta:     meta,
		}
		if err := NewOrderStore(tx).Create(ctx, order); err != nil {
			return err
		}
		if err := intents.DeleteByTxnRef(ctx, txnRef); err != nil {
			return err
		}
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *Reconciler) applyUpdate(ctx context.Context, orders *OrderStore, order *models.PaymentOrder, status models.OrderStatus, meta json.RawMessage) (*ReconcileResult, error) {
	// Never downgrade a completed purchase on a replayed negative callback
	if order.Status == models.OrderStatusPaid && status != models.OrderStatusPaid {
		log.Warn().Str("txn_ref", order.TxnRef).Str("incoming", string(status)).
			Msg("ignoring downgrade callback for paid order")
		return &ReconcileResult{Outcome: OutcomeIgnored, Order: order}, nil
	}

	if err := orders.UpdateStatus(ctx, order, status, meta); err != nil {
		return nil, err
	}
	return &ReconcileResult{Outcome: OutcomeUpdated, Order: order}, nil
}
