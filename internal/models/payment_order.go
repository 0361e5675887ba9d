package models

import (
	"encoding/json"
	"time"
)

// OrderStatus represents the terminal-ish state of a payment attempt.
// An order is created only on the first PAID reconciliation; failed and
// cancelled are terminal and never produce a resource.
type OrderStatus string

const (
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusFailed    OrderStatus = "failed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// PaymentOrder is the durable record of a payment attempt, one per gateway
// transaction reference. The unique index on TxnRef doubles as the
// concurrency guard for racing reconciliation calls.
type PaymentOrder struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TxnRef    string      `gorm:"type:varchar(64);uniqueIndex;not null" json:"txn_ref"`
	Status    OrderStatus `gorm:"type:varchar(20);not null" json:"status"`
	Amount    int64       `json:"amount"` // minor currency unit, from the catalog at reconciliation
	UserID    uint        `gorm:"index" json:"user_id"`
	CompanyID uint        `gorm:"index" json:"company_id"`
	PackageID uint        `json:"package_id"`

	// PackageSnapshot freezes price/duration/position at reconciliation time
	PackageSnapshot json.RawMessage `gorm:"type:jsonb" json:"package_snapshot"`
	PayloadSnapshot json.RawMessage `gorm:"type:jsonb" json:"payload_snapshot"`
	GatewayMeta     json.RawMessage `gorm:"type:jsonb" json:"gateway_meta"`

	// Resulting resource reference, at most one set, immutable once set
	BannerID  *uint `json:"banner_id,omitempty"`
	JobPostID *uint `json:"job_post_id,omitempty"`

	// Relationships
	User    User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Company Company  `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Package *Package `gorm:"foreignKey:PackageID" json:"package,omitempty"`
}

// Provisioned reports whether a resource has already been created for the order
func (o PaymentOrder) Provisioned() bool {
	return o.BannerID != nil || o.JobPostID != nil
}

// Snapshot decodes the package snapshot taken at reconciliation time
func (o PaymentOrder) Snapshot() (PackageSnapshot, error) {
	var snap PackageSnapshot
	err := json.Unmarshal(o.PackageSnapshot, &snap)
	return snap, err
}
