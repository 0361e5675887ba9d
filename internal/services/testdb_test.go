package services

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"jobboard_echo/internal/models"
)

var testDBSeq int64

// newTestDB opens a private in-memory database with the same TranslateError
// setting production uses, so unique-constraint behavior matches.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.JobPost{},
		&models.Package{},
		&models.PaymentIntent{},
		&models.PaymentOrder{},
		&models.Banner{},
		&models.CallbackLog{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedPackage(t *testing.T, db *gorm.DB, kind models.PackageKind, price int64, durationDays int, position string) *models.Package {
	t.Helper()
	pkg := &models.Package{
		Name:         fmt.Sprintf("%s package", kind),
		Kind:         kind,
		Price:        price,
		DurationDays: durationDays,
		Position:     position,
		SlotLimit:    1,
		Active:       true,
	}
	if err := db.Create(pkg).Error; err != nil {
		t.Fatalf("seed package: %v", err)
	}
	return pkg
}

func seedIntent(t *testing.T, db *gorm.DB, txnRef string, pkgID uint, payload interface{}) *models.PaymentIntent {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal intent payload: %v", err)
	}
	intent := &models.PaymentIntent{
		TxnRef:    txnRef,
		UserID:    1,
		CompanyID: 1,
		PackageID: pkgID,
		Payload:   raw,
	}
	if err := db.Create(intent).Error; err != nil {
		t.Fatalf("seed intent: %v", err)
	}
	return intent
}

func mustParseTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time %q: %v", value, err)
	}
	return parsed
}

func countOrders(t *testing.T, db *gorm.DB, txnRef string) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.PaymentOrder{}).Where("txn_ref = ?", txnRef).Count(&n).Error; err != nil {
		t.Fatalf("count orders: %v", err)
	}
	return n
}
