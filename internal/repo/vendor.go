package repo

import (
	"vendorhub/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VendorRepository handles vendor data access
type VendorRepository struct {
	db *gorm.DB
}

// NewVendorRepository creates a new vendor repository
func NewVendorRepository(db *gorm.DB) *VendorRepository {
	return &VendorRepository{db: db}
}

// GetByID gets a vendor by ID
func (r *VendorRepository) GetByID(id uuid.UUID) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.Where("id = ?", id).First(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

// GetBySlug gets a vendor by its public storefront slug
func (r *VendorRepository) GetBySlug(slug string) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.Where("slug = ? AND is_active = ?", slug, true).First(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

// ListActive gets all active vendors, ordered by name
func (r *VendorRepository) ListActive() ([]models.Vendor, error) {
	var vendors []models.Vendor
	if err := r.db.Where("is_active = ?", true).Order("name ASC").Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

// Create creates a new vendor
func (r *VendorRepository) Create(vendor *models.Vendor) error {
	return r.db.Create(vendor).Error
}

// Update updates a vendor
func (r *VendorRepository) Update(vendor *models.Vendor) error {
	return r.db.Save(vendor).Error
}

// UpdateAvailability replaces a vendor's business hours and special hours
// wholesale. Settings saves never patch individual override entries.
func (r *VendorRepository) UpdateAvailability(vendor *models.Vendor) error {
	return r.db.Model(vendor).
		Select("business_hours", "special_hours").
		Updates(map[string]interface{}{
			"business_hours": vendor.BusinessHours,
			"special_hours":  vendor.SpecialHours,
		}).Error
}
