package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vendorhub/internal/availability"
)

// BaseModel is the base model for system-wide entities
type BaseModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt *gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate hook to generate UUID if not set
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// BaseVendorModel is the base model for all vendor-scoped entities
type BaseVendorModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	VendorID  uuid.UUID       `gorm:"type:uuid;index;not null;constraint:OnDelete:RESTRICT" json:"vendor_id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt *gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate hook to generate UUID if not set
func (b *BaseVendorModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Vendor represents a marketplace storefront. BusinessHours and
// SpecialHours are stored as JSONB blobs; their types own the defensive
// decode so a corrupt blob reads as "closed / no overrides", not an error.
type Vendor struct {
	BaseModel
	Name          string                     `gorm:"not null" json:"name" validate:"required"`
	Slug          string                     `gorm:"uniqueIndex;not null" json:"slug" validate:"required"`
	Email         string                     `json:"email"`
	Phone         string                     `json:"phone"`
	IsActive      bool                       `gorm:"default:true" json:"is_active"`
	BusinessHours availability.BusinessHours `gorm:"type:jsonb" json:"business_hours"`
	SpecialHours  availability.SpecialHours  `gorm:"type:jsonb" json:"special_hours"`
}

// Product visibility states. The reconciliation job only ever moves
// products between these two values.
const (
	ProductStatusPublished = "published"
	ProductStatusDraft     = "draft"
)

// Product represents a vendor-owned catalog item
type Product struct {
	BaseVendorModel
	Name        string `gorm:"not null" json:"name" validate:"required"`
	Description string `json:"description"`
	Price       string `gorm:"not null" json:"price" validate:"required"`
	SKU         string `gorm:"uniqueIndex:uni_products_vendor_sku" json:"sku"`
	Status      string `gorm:"default:'published';check:status IN ('published','draft')" json:"status"`
	SortOrder   int    `gorm:"default:0" json:"sort_order"`
}

// ProductStatusUpdate is one element of a bulk visibility mutation
type ProductStatusUpdate struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

// User represents a dashboard user
type User struct {
	BaseModel
	VendorID    *uuid.UUID `gorm:"type:uuid;index;constraint:OnDelete:SET NULL" json:"vendor_id,omitempty"` // null for platform admins
	Email       string     `gorm:"unique;not null" json:"email" validate:"required,email"`
	Password    string     `gorm:"not null" json:"-"`
	Name        string     `gorm:"not null" json:"name" validate:"required"`
	Role        string     `gorm:"not null" json:"role" validate:"required"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

// GetAllModels returns all models for GORM AutoMigrate
func GetAllModels() []interface{} {
	return []interface{}{
		&Vendor{},
		&Product{},
		&User{},
	}
}
