package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"jobboard_echo/internal/models"
)

// The unique index on txn_ref is the reconciler's only concurrency guard:
// the loser of a create race must see gorm.ErrDuplicatedKey, nothing else.
func TestOrderStoreCreateDuplicateTxnRef(t *testing.T) {
	db := newTestDB(t)
	store := NewOrderStore(db)
	ctx := context.Background()

	first := &models.PaymentOrder{TxnRef: "T1", Status: models.OrderStatusPaid, Amount: 100}
	if err := store.Create(ctx, first); err != nil {
		t.Fatalf("first create: %v", err)
	}

	second := &models.PaymentOrder{TxnRef: "T1", Status: models.OrderStatusPaid, Amount: 100}
	err := store.Create(ctx, second)
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("second create err = %v; want gorm.ErrDuplicatedKey", err)
	}

	if n := countOrders(t, db, "T1"); n != 1 {
		t.Errorf("order count = %d; want 1", n)
	}
}

func TestOrderStoreSetResourceOnlyOnce(t *testing.T) {
	db := newTestDB(t)
	store := NewOrderStore(db)
	ctx := context.Background()

	order := &models.PaymentOrder{TxnRef: "T1", Status: models.OrderStatusPaid}
	if err := store.Create(ctx, order); err != nil {
		t.Fatalf("create: %v", err)
	}

	bannerID := uint(11)
	won, err := store.SetResource(ctx, order.ID, &bannerID, nil)
	if err != nil {
		t.Fatalf("first set: %v", err)
	}
	if !won {
		t.Fatal("first SetResource must win")
	}

	otherID := uint(12)
	won, err = store.SetResource(ctx, order.ID, &otherID, nil)
	if err != nil {
		t.Fatalf("second set: %v", err)
	}
	if won {
		t.Fatal("second SetResource must lose")
	}

	got, err := store.FindByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.BannerID == nil || *got.BannerID != bannerID {
		t.Errorf("banner id = %v; want %d", got.BannerID, bannerID)
	}
}

func TestIntentStoreDeleteStale(t *testing.T) {
	db := newTestDB(t)
	store := NewIntentStore(db)
	ctx := context.Background()

	pkg := seedPackage(t, db, models.PackageKindBanner, 1000, 7, "home_top")
	seedIntent(t, db, "OLD", pkg.ID, bannerDraft())
	seedIntent(t, db, "FRESH", pkg.ID, bannerDraft())

	// Age one intent past the cutoff
	if err := db.Model(&models.PaymentIntent{}).Where("txn_ref = ?", "OLD").
		Update("created_at", "2020-01-01 00:00:00").Error; err != nil {
		t.Fatalf("age intent: %v", err)
	}

	swept, err := store.DeleteStale(ctx, mustParseTime(t, "2025-01-01T00:00:00Z"))
	if err != nil {
		t.Fatalf("delete stale: %v", err)
	}
	if swept != 1 {
		t.Errorf("swept = %d; want 1", swept)
	}

	fresh, err := store.FindByTxnRef(ctx, "FRESH")
	if err != nil {
		t.Fatalf("find fresh: %v", err)
	}
	if fresh == nil {
		t.Error("fresh intent must survive the sweep")
	}
}
