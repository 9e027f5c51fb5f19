package repositories

import (
	"context"
	"time"

	"citidesk/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// RequestRepository handles request and request item database operations
type RequestRepository struct {
	db *gorm.DB
}

// NewRequestRepository creates a new request repository
func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// WithTx returns a repository bound to an open transaction.
func (r *RequestRepository) WithTx(tx *gorm.DB) *RequestRepository {
	return &RequestRepository{db: tx}
}

// Create inserts a request together with its items
func (r *RequestRepository) Create(ctx context.Context, request *models.Request) error {
	return r.db.WithContext(ctx).Create(request).Error
}

// GetByID returns a request with items, catalog entries and owner preloaded
func (r *RequestRepository) GetByID(ctx context.Context, id uint) (*models.Request, error) {
	var request models.Request
	err := r.db.WithContext(ctx).
		Preload("Resident").
		Preload("Items").
		Preload("Items.DocumentType").
		First(&request, id).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// GetByRequestNo returns a request by its human-readable number
func (r *RequestRepository) GetByRequestNo(ctx context.Context, requestNo string) (*models.Request, error) {
	var request models.Request
	err := r.db.WithContext(ctx).
		Preload("Resident").
		Preload("Items").
		Preload("Items.DocumentType").
		Where("request_no = ?", requestNo).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// UpdateStatus patches request status and related timestamps
func (r *RequestRepository) UpdateStatus(ctx context.Context, id uint, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&models.Request{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// GetItemByID returns a request item with its catalog entry preloaded
func (r *RequestRepository) GetItemByID(ctx context.Context, id uint) (*models.RequestItem, error) {
	var item models.RequestItem
	err := r.db.WithContext(ctx).
		Preload("DocumentType").
		First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListItemsByRequest returns all items of a request in creation order
func (r *RequestRepository) ListItemsByRequest(ctx context.Context, requestID uint) ([]models.RequestItem, error) {
	var items []models.RequestItem
	err := r.db.WithContext(ctx).
		Preload("DocumentType").
		Where("request_id = ?", requestID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

// UpdateItem patches a request item
func (r *RequestRepository) UpdateItem(ctx context.Context, id uint, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&models.RequestItem{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// ProduceAllPending stamps every still-pending item of a request as
// produced. Touching only PENDING rows keeps the call idempotent.
func (r *RequestRepository) ProduceAllPending(ctx context.Context, requestID uint, producedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.RequestItem{}).
		Where("request_id = ? AND status = ?", requestID, "PENDING").
		Updates(map[string]interface{}{
			"status":      "PRODUCED",
			"produced_at": producedAt,
		}).Error
}

// CountPendingItems counts items of a request still awaiting production
func (r *RequestRepository) CountPendingItems(ctx context.Context, requestID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.RequestItem{}).
		Where("request_id = ? AND status = ?", requestID, "PENDING").
		Count(&count).Error
	return count, err
}

// ListByResident lists requests of one resident, newest first
func (r *RequestRepository) ListByResident(ctx context.Context, residentID uint, offset, limit int) ([]models.Request, int64, error) {
	var requests []models.Request
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Request{}).Where("resident_id = ?", residentID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Items").
		Preload("Items.DocumentType").
		Order("requested_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&requests).Error
	return requests, total, err
}

// ListByDate lists requests for a calendar day with pagination, optionally
// filtered by status
func (r *RequestRepository) ListByDate(ctx context.Context, date time.Time, status string, offset, limit int) ([]models.Request, int64, error) {
	var requests []models.Request
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Request{}).Where("request_date = ?", date)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Resident").
		Preload("Items").
		Order("requested_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&requests).Error
	return requests, total, err
}

// CountByStatusForDate returns request counts grouped by status for a day
func (r *RequestRepository) CountByStatusForDate(ctx context.Context, date time.Time) (map[string]int64, error) {
	type result struct {
		Status string
		Count  int64
	}
	var results []result

	err := r.db.WithContext(ctx).
		Model(&models.Request{}).
		Select("status, COUNT(*) as count").
		Where("request_date = ?", date).
		Group("status").
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(results))
	for _, row := range results {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// SumRevenueForDate returns the total price of a day's requests in the given status
func (r *RequestRepository) SumRevenueForDate(ctx context.Context, date time.Time, status string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Request{}).
		Select("COALESCE(SUM(total_price), 0)").
		Where("request_date = ? AND status = ?", date, status).
		Scan(&total).Error
	return total, err
}
