package models

import (
	"encoding/json"
	"time"
)

// PaymentIntent is an ephemeral pre-payment draft, keyed by the gateway
// transaction reference. It exists only between checkout and the first
// reconciliation of its transaction: reconciliation deletes it in the same
// transaction that creates the durable PaymentOrder. Intents that are never
// reconciled are garbage-collected by cmd/sweeper.
type PaymentIntent struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	TxnRef    string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"txn_ref"`
	UserID    uint            `gorm:"index" json:"user_id"`
	CompanyID uint            `gorm:"index" json:"company_id"`
	PackageID uint            `json:"package_id"`
	Payload   json.RawMessage `gorm:"type:jsonb" json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// BannerDraft is the payload carried by a banner purchase intent.
// It holds only presentation fields; never the price.
type BannerDraft struct {
	Title     string `json:"title"`
	ImageURL  string `json:"image_url"`
	TargetURL string `json:"target_url"`
}

// FeatureDraft is the payload carried by a job-feature purchase intent
type FeatureDraft struct {
	JobPostID uint `json:"job_post_id"`
}
