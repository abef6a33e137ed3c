package tracking

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/asifmahmud/parceltrack-backend/pkg/db/models"
)

// Repository manages persistence for tracking events.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, event *models.TrackingEvent) error
	ListByParcelID(ctx context.Context, parcelID uuid.UUID) ([]models.TrackingEvent, error)
	ListByTrackingCode(ctx context.Context, trackingCode string) ([]models.TrackingEvent, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a tracking repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, event *models.TrackingEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) ListByParcelID(ctx context.Context, parcelID uuid.UUID) ([]models.TrackingEvent, error) {
	var events []models.TrackingEvent
	if err := r.db.WithContext(ctx).
		Where("parcel_id = ?", parcelID).
		Order("event_at ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *repository) ListByTrackingCode(ctx context.Context, trackingCode string) ([]models.TrackingEvent, error) {
	var events []models.TrackingEvent
	if err := r.db.WithContext(ctx).
		Where("tracking_code = ?", trackingCode).
		Order("event_at ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
