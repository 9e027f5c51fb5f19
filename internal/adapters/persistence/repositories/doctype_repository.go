package repositories

import (
	"context"

	"citidesk/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// DocumentTypeRepository handles catalog database operations
type DocumentTypeRepository struct {
	db *gorm.DB
}

// NewDocumentTypeRepository creates a new document type repository
func NewDocumentTypeRepository(db *gorm.DB) *DocumentTypeRepository {
	return &DocumentTypeRepository{db: db}
}

// WithTx returns a copy bound to the given transaction
func (r *DocumentTypeRepository) WithTx(tx *gorm.DB) *DocumentTypeRepository {
	return &DocumentTypeRepository{db: tx}
}

// GetByID returns a document type by ID
func (r *DocumentTypeRepository) GetByID(ctx context.Context, id uint) (*models.DocumentType, error) {
	var dt models.DocumentType
	err := r.db.WithContext(ctx).First(&dt, id).Error
	if err != nil {
		return nil, err
	}
	return &dt, nil
}

// GetByIDs returns document types for a set of IDs
func (r *DocumentTypeRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.DocumentType, error) {
	var types []models.DocumentType
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&types).Error
	return types, err
}

// ListActive returns all active document types for the kiosk catalog
func (r *DocumentTypeRepository) ListActive(ctx context.Context) ([]models.DocumentType, error) {
	var types []models.DocumentType
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("name ASC").Find(&types).Error
	return types, err
}

// List returns all document types including inactive ones (admin view)
func (r *DocumentTypeRepository) List(ctx context.Context) ([]models.DocumentType, error) {
	var types []models.DocumentType
	err := r.db.WithContext(ctx).Order("id ASC").Find(&types).Error
	return types, err
}

// Create creates a catalog entry
func (r *DocumentTypeRepository) Create(ctx context.Context, dt *models.DocumentType) error {
	return r.db.WithContext(ctx).Create(dt).Error
}

// Update saves a catalog entry
func (r *DocumentTypeRepository) Update(ctx context.Context, dt *models.DocumentType) error {
	return r.db.WithContext(ctx).Save(dt).Error
}
