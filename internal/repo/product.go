package repo

import (
	"vendorhub/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductRepository handles product catalog data access
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// GetByID gets a product by ID
func (r *ProductRepository) GetByID(vendorID, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.Where("id = ? AND vendor_id = ?", id, vendorID).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListByVendor gets all products for a vendor, ordered by sort_order
func (r *ProductRepository) ListByVendor(vendorID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Where("vendor_id = ?", vendorID).Order("sort_order ASC, name ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Create creates a new product
func (r *ProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Update updates a product
func (r *ProductRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

// BulkUpdateStatus applies a set of visibility changes in one transaction.
// Setting a status a product already has is a no-op, so callers may retry
// freely.
func (r *ProductRepository) BulkUpdateStatus(vendorID uuid.UUID, updates []models.ProductStatusUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			if err := tx.Model(&models.Product{}).
				Where("id = ? AND vendor_id = ?", u.ID, vendorID).
				Update("status", u.Status).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
