package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"citidesk/internal/adapters/persistence/models"
	"citidesk/internal/core/domain"

	"gorm.io/gorm"
)

// SequenceRepository hands out day-scoped sequential identifiers. Each series
// keeps a single counter row per scope; allocation is an in-place increment,
// so it stays duplicate-free as long as it runs inside the same transaction
// that inserts the numbered record.
type SequenceRepository struct {
	db *gorm.DB
}

// NewSequenceRepository creates a new sequence repository
func NewSequenceRepository(db *gorm.DB) *SequenceRepository {
	return &SequenceRepository{db: db}
}

// WithTx returns a repository bound to an open transaction.
func (r *SequenceRepository) WithTx(tx *gorm.DB) *SequenceRepository {
	return &SequenceRepository{db: tx}
}

// NextNumber reserves and formats the next identifier of a series for the
// given date. Missing counter rows start at 1. A duplicate-key race on the
// first allocation of a scope surfaces as a conflict for the caller to retry.
func (r *SequenceRepository) NextNumber(ctx context.Context, series domain.Series, date time.Time) (string, error) {
	if !series.IsValid() {
		return "", fmt.Errorf("%w: unknown series %q", domain.ErrValidation, series)
	}

	scope := series.ScopeKey(date)

	// Increment first: the row update locks the counter for the rest of the
	// enclosing transaction.
	res := r.db.WithContext(ctx).
		Model(&models.SequenceCounter{}).
		Where("series = ? AND scope = ?", series, scope).
		Update("value", gorm.Expr("value + 1"))
	if res.Error != nil {
		return "", res.Error
	}

	if res.RowsAffected == 0 {
		// First allocation in this scope. Two concurrent firsts race on the
		// unique (series, scope) index; the loser retries the whole operation.
		counter := models.SequenceCounter{Series: string(series), Scope: scope, Value: 1}
		if err := r.db.WithContext(ctx).Create(&counter).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return "", fmt.Errorf("%w: series %s counter raced on first allocation", domain.ErrConflict, series)
			}
			return "", err
		}
		return series.Format(date, 1), nil
	}

	var counter models.SequenceCounter
	if err := r.db.WithContext(ctx).
		Where("series = ? AND scope = ?", series, scope).
		First(&counter).Error; err != nil {
		return "", err
	}

	return series.Format(date, counter.Value), nil
}
