package parcels

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/asifmahmud/parceltrack-backend/pkg/db/models"
	"github.com/asifmahmud/parceltrack-backend/pkg/enums"
)

// Repository defines persistence operations for the parcels table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, parcel *models.Parcel) (*models.Parcel, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Parcel, error)
	FindByTrackingCode(ctx context.Context, trackingCode string) (*models.Parcel, error)
	ListByMerchant(ctx context.Context, merchantEmail string) ([]models.Parcel, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ParcelStatus, deliveredAt *time.Time) error
	MarkPaid(ctx context.Context, trackingCode string, paidAt time.Time) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
