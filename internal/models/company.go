package models

import (
	"time"

	"gorm.io/gorm"
)

// Company represents an employer's company profile
type Company struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	OwnerID uint   `gorm:"index" json:"owner_id"`
	Name    string `gorm:"type:varchar(255)" json:"name"`
	Website string `gorm:"type:varchar(255)" json:"website"`

	// Relationships
	Owner    User      `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	JobPosts []JobPost `gorm:"foreignKey:CompanyID" json:"job_posts,omitempty"`
	Banners  []Banner  `gorm:"foreignKey:CompanyID" json:"banners,omitempty"`
}
