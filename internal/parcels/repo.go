package parcels

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/asifmahmud/parceltrack-backend/pkg/db/models"
	"github.com/asifmahmud/parceltrack-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a parcels repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, parcel *models.Parcel) (*models.Parcel, error) {
	if err := r.db.WithContext(ctx).Create(parcel).Error; err != nil {
		return nil, err
	}
	return parcel, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Parcel, error) {
	var parcel models.Parcel
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&parcel).Error
	if err != nil {
		return nil, err
	}
	return &parcel, nil
}

func (r *repository) FindByTrackingCode(ctx context.Context, trackingCode string) (*models.Parcel, error) {
	var parcel models.Parcel
	err := r.db.WithContext(ctx).
		Where("tracking_code = ?", trackingCode).
		First(&parcel).Error
	if err != nil {
		return nil, err
	}
	return &parcel, nil
}

func (r *repository) ListByMerchant(ctx context.Context, merchantEmail string) ([]models.Parcel, error) {
	var rows []models.Parcel
	err := r.db.WithContext(ctx).
		Where("merchant_email = ?", merchantEmail).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ParcelStatus, deliveredAt *time.Time) error {
	updates := map[string]any{
		"status":       status,
		"delivered_at": deliveredAt,
		"updated_at":   time.Now().UTC(),
	}
	return r.db.WithContext(ctx).
		Model(&models.Parcel{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// MarkPaid flips payment_status only when it is still not_paid; the returned
// row count lets the service tell AlreadyPaid apart from NotFound.
func (r *repository) MarkPaid(ctx context.Context, trackingCode string, paidAt time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Parcel{}).
		Where("tracking_code = ? AND payment_status = ?", trackingCode, enums.PaymentStatusNotPaid).
		Updates(map[string]any{
			"payment_status": enums.PaymentStatusPaid,
			"paid_at":        paidAt,
			"updated_at":     time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Parcel{}).Error
}
