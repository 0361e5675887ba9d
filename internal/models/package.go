package models

import (
	"time"

	"gorm.io/gorm"
)

// PackageKind represents what a package provisions when purchased
type PackageKind string

const (
	PackageKindBanner     PackageKind = "banner"
	PackageKindJobFeature PackageKind = "job_feature"
)

// Package represents a purchasable catalog entry (banner slot or job
// feature). Price is in the minor currency unit.
type Package struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name         string      `gorm:"type:varchar(255)" json:"name"`
	Kind         PackageKind `gorm:"type:varchar(50);not null" json:"kind"`
	Price        int64       `json:"price"`
	DurationDays int         `json:"duration_days"`
	Position     string      `gorm:"type:varchar(50)" json:"position"` // banner slot, e.g. "home_top"
	SlotLimit    int         `gorm:"default:1" json:"slot_limit"`
	Active       bool        `gorm:"default:true" json:"active"`
}

// PackageSnapshot is the slice of catalog state frozen into an order at
// reconciliation time, so later approval never re-reads the live catalog.
type PackageSnapshot struct {
	Price        int64       `json:"price"`
	DurationDays int         `json:"duration_days"`
	Position     string      `json:"position"`
	Kind         PackageKind `json:"kind"`
}
