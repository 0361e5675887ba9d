package models

import (
	"time"

	"gorm.io/gorm"
)

// UserRole represents the role of a user
type UserRole string

const (
	UserRoleAdmin    UserRole = "Admin"
	UserRoleEmployer UserRole = "Employer"
)

// User represents a user in the system
type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name        string   `gorm:"type:varchar(255)" json:"name"`
	Email       string   `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	FirebaseUID string   `gorm:"type:varchar(128);index" json:"-"`
	Role        UserRole `gorm:"type:varchar(20);default:'Employer'" json:"role"`

	// Relationships
	Companies []Company      `gorm:"foreignKey:OwnerID" json:"companies,omitempty"`
	Orders    []PaymentOrder `gorm:"foreignKey:UserID" json:"orders,omitempty"`
}
