package models

import (
	"time"

	"gorm.io/gorm"
)

// Banner represents a paid banner placement, created exactly once per
// approved order by the approval workflow.
type Banner struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	CompanyID uint   `gorm:"index" json:"company_id"`
	PackageID uint   `json:"package_id"`
	Title     string `gorm:"type:varchar(255)" json:"title"`
	ImageURL  string `gorm:"type:varchar(512)" json:"image_url"`
	TargetURL string `gorm:"type:varchar(512)" json:"target_url"`
	Position  string `gorm:"type:varchar(50);index" json:"position"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Approved  bool      `gorm:"default:false" json:"approved"`
	Active    bool      `gorm:"default:true" json:"active"`

	// Relationships
	Company Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

// Live reports whether the banner should currently be served
func (b Banner) Live(now time.Time) bool {
	return b.Approved && b.Active && !now.Before(b.StartDate) && now.Before(b.EndDate)
}
