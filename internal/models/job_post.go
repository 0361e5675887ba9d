package models

import (
	"time"

	"gorm.io/gorm"
)

// JobPost represents a published job opening. Only the fields the payment
// pipeline touches are modeled here; full job CRUD lives elsewhere.
type JobPost struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	CompanyID uint   `gorm:"index" json:"company_id"`
	Title     string `gorm:"type:varchar(255)" json:"title"`
	Active    bool   `gorm:"default:true" json:"active"`

	// FeaturedUntil is stamped by an approved job-feature purchase
	FeaturedUntil *time.Time `json:"featured_until,omitempty"`

	// Relationships
	Company Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

// IsFeatured reports whether the post currently holds a feature grant
func (j JobPost) IsFeatured() bool {
	return j.FeaturedUntil != nil && j.FeaturedUntil.After(time.Now())
}
