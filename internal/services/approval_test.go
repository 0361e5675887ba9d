package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"jobboard_echo/internal/models"
)

func TestApproveAndProvisionBannerExactlyOnce(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	pkg := seedPackage(t, db, models.PackageKindBanner, 500000, 7, "home_top")
	seedIntent(t, db, "T1", pkg.ID, bannerDraft())

	res, err := NewReconciler(db, NewPackageCatalog(db, nil)).Reconcile(ctx, "T1", models.OrderStatusPaid, nil)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	orderID := res.Order.ID

	approval := NewApprovalService(db)
	provisioned, err := approval.ApproveAndProvision(ctx, orderID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}

	banner := provisioned.Banner
	if banner == nil {
		t.Fatal("banner order must provision a banner")
	}
	if want := banner.StartDate.AddDate(0, 0, 7); !banner.EndDate.Equal(want) {
		t.Errorf("end date = %v; want start + 7 days (%v)", banner.EndDate, want)
	}
	if banner.Position != "home_top" {
		t.Errorf("position = %s; want home_top", banner.Position)
	}
	if !banner.Approved || !banner.Active {
		t.Errorf("banner not live after approval: approved=%v active=%v", banner.Approved, banner.Active)
	}

	order, err := NewOrderStore(db).FindByID(ctx, orderID)
	if err != nil {
		t.Fatalf("find order: %v", err)
	}
	if order.BannerID == nil || *order.BannerID != banner.ID {
		t.Errorf("order banner id = %v; want %d", order.BannerID, banner.ID)
	}

	// Second approval must fail and create nothing
	_, err = approval.ApproveAndProvision(ctx, orderID)
	var precondition *PreconditionError
	if !errors.As(err, &precondition) || precondition.Reason != ReasonAlreadyProvisioned {
		t.Fatalf("second approve err = %v; want AlreadyProvisioned", err)
	}

	var bannerCount int64
	if err := db.Model(&models.Banner{}).Count(&bannerCount).Error; err != nil {
		t.Fatalf("count banners: %v", err)
	}
	if bannerCount != 1 {
		t.Errorf("banner count = %d; want 1", bannerCount)
	}
}

func TestApproveAndProvisionJobFeature(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	jobPost := &models.JobPost{CompanyID: 1, Title: "Backend Engineer", Active: true}
	if err := db.Create(jobPost).Error; err != nil {
		t.Fatalf("seed job post: %v", err)
	}

	pkg := seedPackage(t, db, models.PackageKindJobFeature, 200000, 14, "")
	seedIntent(t, db, "J1", pkg.ID, models.FeatureDraft{JobPostID: jobPost.ID})

	res, err := NewReconciler(db, NewPackageCatalog(db, nil)).Reconcile(ctx, "J1", models.OrderStatusPaid, nil)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	provisioned, err := NewApprovalService(db).ApproveAndProvision(ctx, res.Order.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if provisioned.JobPost == nil {
		t.Fatal("feature order must stamp the job post")
	}
	if provisioned.JobPost.FeaturedUntil == nil {
		t.Fatal("featured_until not set")
	}
	if remaining := time.Until(*provisioned.JobPost.FeaturedUntil); remaining < 13*24*time.Hour {
		t.Errorf("feature window too short: %v remaining", remaining)
	}

	order, err := NewOrderStore(db).FindByID(ctx, res.Order.ID)
	if err != nil {
		t.Fatalf("find order: %v", err)
	}
	if order.JobPostID == nil || *order.JobPostID != jobPost.ID {
		t.Errorf("order job post id = %v; want %d", order.JobPostID, jobPost.ID)
	}
}

func TestApprovePreconditions(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	approval := NewApprovalService(db)

	failed := &models.PaymentOrder{TxnRef: "F1", Status: models.OrderStatusFailed}
	if err := db.Create(failed).Error; err != nil {
		t.Fatalf("seed failed order: %v", err)
	}

	tests := []struct {
		name    string
		orderID uint
		reason  PreconditionReason
	}{
		{"missing order", 9999, ReasonNotFound},
		{"unpaid order", failed.ID, ReasonNotPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := approval.ApproveAndProvision(ctx, tt.orderID)
			var precondition *PreconditionError
			if !errors.As(err, &precondition) {
				t.Fatalf("err = %v; want PreconditionError", err)
			}
			if precondition.Reason != tt.reason {
				t.Errorf("reason = %s; want %s", precondition.Reason, tt.reason)
			}
		})
	}
}

// Approval must use the snapshot taken at reconciliation, so a later catalog
// edit cannot change what the payer bought.
func TestApproveUsesSnapshotNotLiveCatalog(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	pkg := seedPackage(t, db, models.PackageKindBanner, 500000, 7, "home_top")
	seedIntent(t, db, "T1", pkg.ID, bannerDraft())

	res, err := NewReconciler(db, NewPackageCatalog(db, nil)).Reconcile(ctx, "T1", models.OrderStatusPaid, nil)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	// Admin edits the package between purchase and approval
	if err := db.Model(pkg).Updates(map[string]interface{}{"duration_days": 30, "position": "sidebar"}).Error; err != nil {
		t.Fatalf("edit package: %v", err)
	}

	provisioned, err := NewApprovalService(db).ApproveAndProvision(ctx, res.Order.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	banner := provisioned.Banner
	if want := banner.StartDate.AddDate(0, 0, 7); !banner.EndDate.Equal(want) {
		t.Errorf("end date = %v; want the purchased 7-day window (%v)", banner.EndDate, want)
	}
	if banner.Position != "home_top" {
		t.Errorf("position = %s; want the purchased home_top slot", banner.Position)
	}
}
