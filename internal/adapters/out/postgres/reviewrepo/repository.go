// Package reviewrepo implements the slice of review persistence the
// fulfillment core needs: removing the reviews that reference an order when
// the order is deleted. Reviews are written elsewhere.
package reviewrepo

import (
	"context"
	"time"

	"fulfillment/internal/adapters/out/postgres/sqlerr"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReviewDTO represents the database structure of a product review as far as
// order deletion is concerned.
type ReviewDTO struct {
	ID        int64      `gorm:"primaryKey;autoIncrement"`
	OrderID   *uuid.UUID `gorm:"type:uuid;index"`
	ProductID uuid.UUID  `gorm:"type:uuid;index"`
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// TableName specifies the database table name for reviews.
func (ReviewDTO) TableName() string {
	return "reviews"
}

// GormReviewRepository implements ReviewRepository using GORM.
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GORM review repository.
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// DeleteForOrder removes all reviews referencing the order. Absent rows are
// not an error, so the cascading delete can be re-run.
func (r *GormReviewRepository) DeleteForOrder(ctx context.Context, orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Delete(&ReviewDTO{}).Error
	return sqlerr.Classify("delete reviews", err)
}
