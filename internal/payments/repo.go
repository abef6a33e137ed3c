package payments

import (
	"context"

	"gorm.io/gorm"

	"github.com/asifmahmud/parceltrack-backend/pkg/db/models"
)

// Repository manages the denormalized payment ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, record *models.PaymentRecord) error
	FindByTrackingCode(ctx context.Context, trackingCode string) (*models.PaymentRecord, error)
	List(ctx context.Context, merchantEmail string) ([]models.PaymentRecord, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a payments repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, record *models.PaymentRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) FindByTrackingCode(ctx context.Context, trackingCode string) (*models.PaymentRecord, error) {
	var record models.PaymentRecord
	err := r.db.WithContext(ctx).
		Where("tracking_code = ?", trackingCode).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// List returns ledger rows newest first, optionally scoped to one merchant.
func (r *repository) List(ctx context.Context, merchantEmail string) ([]models.PaymentRecord, error) {
	q := r.db.WithContext(ctx).Model(&models.PaymentRecord{})
	if merchantEmail != "" {
		q = q.Where("merchant_email = ?", merchantEmail)
	}
	var rows []models.PaymentRecord
	if err := q.Order("paid_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
