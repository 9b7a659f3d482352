// Package detailsrepo implements the repository pattern for recipient
// details records, mapping between the domain entity and its table.
package detailsrepo

import (
	"context"
	"errors"

	"fulfillment/internal/adapters/out/postgres/sqlerr"
	"fulfillment/internal/core/domain/model/details"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormDetailsRepository implements DetailsRepository using GORM.
type GormDetailsRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormDetailsRepository creates a new GORM details repository.
func NewGormDetailsRepository(db *gorm.DB, tracker aggregateTracker) *GormDetailsRepository {
	return &GormDetailsRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new details record.
func (r *GormDetailsRepository) Add(ctx context.Context, record *details.Details) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := fromDomain(record)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return sqlerr.Classify("insert details", err)
	}

	r.tracker.TrackAggregate(record.ID(), record)
	return nil
}

// Get retrieves a details record by ID.
func (r *GormDetailsRepository) Get(ctx context.Context, id kernel.UUID) (*details.Details, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DetailsDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("details", id.String())
		}
		return nil, sqlerr.Classify("select details", err)
	}

	return toDomain(dto)
}

// Delete removes a details record. An absent row is not an error.
func (r *GormDetailsRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	err := r.db.WithContext(ctx).
		Where("id = ?", id.Bytes()).
		Delete(&DetailsDTO{}).Error
	return sqlerr.Classify("delete details", err)
}
