package repositories

import (
	"context"

	"citidesk/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// ResidentRepository handles registry record database operations
type ResidentRepository struct {
	db *gorm.DB
}

// NewResidentRepository creates a new resident repository
func NewResidentRepository(db *gorm.DB) *ResidentRepository {
	return &ResidentRepository{db: db}
}

// WithTx returns a repository bound to an open transaction.
func (r *ResidentRepository) WithTx(tx *gorm.DB) *ResidentRepository {
	return &ResidentRepository{db: tx}
}

// Create creates a new resident record
func (r *ResidentRepository) Create(ctx context.Context, resident *models.Resident) error {
	return r.db.WithContext(ctx).Create(resident).Error
}

// GetByID returns a resident by ID
func (r *ResidentRepository) GetByID(ctx context.Context, id uint) (*models.Resident, error) {
	var resident models.Resident
	err := r.db.WithContext(ctx).First(&resident, id).Error
	if err != nil {
		return nil, err
	}
	return &resident, nil
}

// GetByRegistryNo returns a resident by registry number
func (r *ResidentRepository) GetByRegistryNo(ctx context.Context, registryNo string) (*models.Resident, error) {
	var resident models.Resident
	err := r.db.WithContext(ctx).Where("registry_no = ?", registryNo).First(&resident).Error
	if err != nil {
		return nil, err
	}
	return &resident, nil
}

// Update saves a resident record
func (r *ResidentRepository) Update(ctx context.Context, resident *models.Resident) error {
	return r.db.WithContext(ctx).Save(resident).Error
}

// UpdateStatus patches the registry status of a resident
func (r *ResidentRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Resident{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// HardDelete permanently removes a resident record. Only rejected
// provisional registrations are ever deleted.
func (r *ResidentRepository) HardDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Unscoped().Delete(&models.Resident{}, id).Error
}

// SearchByLastNamePrefix returns candidates whose last name falls in
// [prefix, prefix+MaxChar), capped at limit. Used by duplicate detection.
func (r *ResidentRepository) SearchByLastNamePrefix(ctx context.Context, prefix string, limit int) ([]models.Resident, error) {
	var residents []models.Resident
	upper := prefix + string(rune(0x10FFFF))
	err := r.db.WithContext(ctx).
		Where("LOWER(last_name) >= ? AND LOWER(last_name) < ?", prefix, upper).
		Order("last_name ASC, first_name ASC").
		Limit(limit).
		Find(&residents).Error
	return residents, err
}

// List lists residents with optional name search and pagination
func (r *ResidentRepository) List(ctx context.Context, search string, offset, limit int) ([]models.Resident, int64, error) {
	var residents []models.Resident
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Resident{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("first_name LIKE ? OR last_name LIKE ? OR registry_no LIKE ?", like, like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("last_name ASC, first_name ASC").
		Offset(offset).
		Limit(limit).
		Find(&residents).Error
	return residents, total, err
}

// ListByStatus lists residents with a given registry status
func (r *ResidentRepository) ListByStatus(ctx context.Context, status string, offset, limit int) ([]models.Resident, int64, error) {
	var residents []models.Resident
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Resident{}).Where("status = ?", status)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at ASC").Offset(offset).Limit(limit).Find(&residents).Error
	return residents, total, err
}
