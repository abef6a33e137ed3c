package parcels

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/asifmahmud/parceltrack-backend/internal/payments"
	"github.com/asifmahmud/parceltrack-backend/internal/tracking"
	"github.com/asifmahmud/parceltrack-backend/pkg/db/models"
	"github.com/asifmahmud/parceltrack-backend/pkg/enums"
	pkgerrors "github.com/asifmahmud/parceltrack-backend/pkg/errors"
	"github.com/asifmahmud/parceltrack-backend/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service coordinates parcel lifecycle transitions. Every mutation commits the
// parcel write, the tracking append and the outbox emit in one transaction.
type Service interface {
	Create(ctx context.Context, input CreateParcelInput) (*models.Parcel, error)
	GetByTrackingCode(ctx context.Context, trackingCode string) (*models.Parcel, error)
	ListByMerchant(ctx context.Context, merchantEmail string) ([]ParcelSummary, error)
	Cancel(ctx context.Context, input CancelParcelInput) (*models.Parcel, error)
	AdvanceStatus(ctx context.Context, input AdvanceStatusInput) (*models.Parcel, error)
	ConfirmPayment(ctx context.Context, input ConfirmPaymentInput) (*models.Parcel, error)
	Delete(ctx context.Context, input DeleteParcelInput) error
}

type service struct {
	repo     Repository
	tracking tracking.Repository
	payments payments.Repository
	tx       txRunner
	outbox   outboxPublisher
	now      func() time.Time
}

// NewService builds a parcel service with the required dependencies.
func NewService(repo Repository, trackingRepo tracking.Repository, paymentsRepo payments.Repository, tx txRunner, outboxSvc outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("parcels repository required")
	}
	if trackingRepo == nil {
		return nil, fmt.Errorf("tracking repository required")
	}
	if paymentsRepo == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		repo:     repo,
		tracking: trackingRepo,
		payments: paymentsRepo,
		tx:       tx,
		outbox:   outboxSvc,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateParcelInput) (*models.Parcel, error) {
	if strings.TrimSpace(input.MerchantEmail) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "merchant email is required")
	}
	if strings.TrimSpace(input.TrackingCode) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tracking code is required")
	}
	if input.Fare.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fare must not be negative")
	}

	now := s.now()
	parcel := &models.Parcel{
		TrackingCode:   strings.TrimSpace(input.TrackingCode),
		MerchantName:   input.MerchantName,
		MerchantEmail:  strings.ToLower(strings.TrimSpace(input.MerchantEmail)),
		SenderRegion:   input.SenderRegion,
		ReceiverRegion: input.ReceiverRegion,
		SenderHub:      input.SenderHub,
		ReceiverHub:    input.ReceiverHub,
		ParcelType:     input.ParcelType,
		Fare:           input.Fare,
		Status:         enums.ParcelStatusPending,
		PaymentStatus:  enums.PaymentStatusNotPaid,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.Create(ctx, parcel); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create parcel")
		}

		event := &models.TrackingEvent{
			ParcelID:     parcel.ID,
			TrackingCode: parcel.TrackingCode,
			Status:       enums.ParcelStatusPending,
			Message:      "Parcel created",
			Actor:        parcel.MerchantEmail,
			EventAt:      now,
		}
		if err := s.tracking.WithTx(tx).Create(ctx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append tracking event")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.OutboxEventParcelCreated,
			AggregateType: enums.OutboxAggregateParcel,
			AggregateID:   parcel.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{Email: parcel.MerchantEmail, Role: enums.MemberRoleMerchant.String()},
			Data: outbox.ParcelCreatedPayload{
				ParcelID:       parcel.ID.String(),
				TrackingCode:   parcel.TrackingCode,
				MerchantEmail:  parcel.MerchantEmail,
				SenderRegion:   parcel.SenderRegion,
				ReceiverRegion: parcel.ReceiverRegion,
				Fare:           parcel.Fare.String(),
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return parcel, nil
}

func (s *service) GetByTrackingCode(ctx context.Context, trackingCode string) (*models.Parcel, error) {
	if strings.TrimSpace(trackingCode) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tracking code is required")
	}
	parcel, err := s.repo.FindByTrackingCode(ctx, trackingCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "parcel not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load parcel")
	}
	return parcel, nil
}

func (s *service) ListByMerchant(ctx context.Context, merchantEmail string) ([]ParcelSummary, error) {
	if strings.TrimSpace(merchantEmail) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "merchant email is required")
	}
	rows, err := s.repo.ListByMerchant(ctx, strings.ToLower(strings.TrimSpace(merchantEmail)))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list parcels")
	}
	summaries := make([]ParcelSummary, 0, len(rows))
	for _, p := range rows {
		summaries = append(summaries, ParcelSummary{
			ID:            p.ID,
			TrackingCode:  p.TrackingCode,
			ReceiverHub:   p.ReceiverHub,
			ParcelType:    p.ParcelType,
			Fare:          p.Fare,
			Status:        p.Status,
			PaymentStatus: p.PaymentStatus,
			CreatedAt:     p.CreatedAt,
		})
	}
	return summaries, nil
}

func (s *service) Cancel(ctx context.Context, input CancelParcelInput) (*models.Parcel, error) {
	if input.ParcelID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "parcel id is required")
	}

	var updated *models.Parcel
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		parcel, err := repo.FindByID(ctx, input.ParcelID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "parcel not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load parcel")
		}
		if parcel.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("parcel is already %s", parcel.Status))
		}

		decision := EvaluateCancellation(parcel, s.now())
		if !decision.Allowed {
			return pkgerrors.New(pkgerrors.CodePolicy, decision.Reason).
				WithDetails(map[string]string{"reason": decision.Reason})
		}

		oldStatus := parcel.Status
		if err := repo.UpdateStatus(ctx, parcel.ID, enums.ParcelStatusCancelled, nil); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update parcel status")
		}
		parcel.Status = enums.ParcelStatusCancelled

		event := &models.TrackingEvent{
			ParcelID:     parcel.ID,
			TrackingCode: parcel.TrackingCode,
			Status:       enums.ParcelStatusCancelled,
			Message:      fmt.Sprintf("Status updated to %s", enums.ParcelStatusCancelled),
			Actor:        actorOrSystem(input.ActorEmail),
			EventAt:      s.now(),
		}
		if err := s.tracking.WithTx(tx).Create(ctx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append tracking event")
		}

		updated = parcel
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.OutboxEventParcelCancelled,
			AggregateType: enums.OutboxAggregateParcel,
			AggregateID:   parcel.ID,
			Version:       1,
			Actor:         buildActor(input.ActorEmail, input.ActorRole),
			Data: outbox.StatusUpdatedPayload{
				ParcelID:      parcel.ID.String(),
				TrackingCode:  parcel.TrackingCode,
				MerchantEmail: parcel.MerchantEmail,
				OldStatus:     oldStatus.String(),
				NewStatus:     enums.ParcelStatusCancelled.String(),
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) AdvanceStatus(ctx context.Context, input AdvanceStatusInput) (*models.Parcel, error) {
	if input.ParcelID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "parcel id is required")
	}
	if !input.NewStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("invalid parcel status %q", input.NewStatus))
	}

	var updated *models.Parcel
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		parcel, err := repo.FindByID(ctx, input.ParcelID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "parcel not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load parcel")
		}
		if parcel.Status == input.NewStatus {
			updated = parcel
			return nil
		}
		if parcel.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("parcel is already %s", parcel.Status))
		}

		now := s.now()
		var deliveredAt *time.Time
		if input.NewStatus == enums.ParcelStatusDelivered {
			deliveredAt = &now
		}

		oldStatus := parcel.Status
		if err := repo.UpdateStatus(ctx, parcel.ID, input.NewStatus, deliveredAt); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update parcel status")
		}
		parcel.Status = input.NewStatus
		parcel.DeliveredAt = deliveredAt

		event := &models.TrackingEvent{
			ParcelID:     parcel.ID,
			TrackingCode: parcel.TrackingCode,
			Status:       input.NewStatus,
			Message:      fmt.Sprintf("Status updated to %s", input.NewStatus),
			Actor:        actorOrSystem(input.ActorEmail),
			EventAt:      now,
		}
		if err := s.tracking.WithTx(tx).Create(ctx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append tracking event")
		}

		updated = parcel
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.OutboxEventStatusUpdated,
			AggregateType: enums.OutboxAggregateParcel,
			AggregateID:   parcel.ID,
			Version:       1,
			Actor:         buildActor(input.ActorEmail, input.ActorRole),
			Data: outbox.StatusUpdatedPayload{
				ParcelID:      parcel.ID.String(),
				TrackingCode:  parcel.TrackingCode,
				MerchantEmail: parcel.MerchantEmail,
				OldStatus:     oldStatus.String(),
				NewStatus:     input.NewStatus.String(),
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) ConfirmPayment(ctx context.Context, input ConfirmPaymentInput) (*models.Parcel, error) {
	if strings.TrimSpace(input.TrackingCode) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tracking code is required")
	}

	var updated *models.Parcel
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		paidAt := s.now()

		affected, err := repo.MarkPaid(ctx, input.TrackingCode, paidAt)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark parcel paid")
		}
		if affected == 0 {
			// Either the parcel does not exist or payment already went through.
			if _, findErr := repo.FindByTrackingCode(ctx, input.TrackingCode); findErr != nil {
				if errors.Is(findErr, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "parcel not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, findErr, "load parcel")
			}
			return pkgerrors.New(pkgerrors.CodeConflict, "payment already confirmed")
		}

		parcel, err := repo.FindByTrackingCode(ctx, input.TrackingCode)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load parcel")
		}

		amount := input.Amount
		if amount.IsZero() {
			amount = parcel.Fare
		}
		record := &models.PaymentRecord{
			ParcelID:      parcel.ID,
			TrackingCode:  parcel.TrackingCode,
			MerchantEmail: parcel.MerchantEmail,
			Amount:        amount,
			Method:        input.Method,
			Reference:     input.Reference,
			PaidAt:        paidAt,
		}
		if err := s.payments.WithTx(tx).Create(ctx, record); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write payment record")
		}

		updated = parcel
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.OutboxEventPaymentConfirmed,
			AggregateType: enums.OutboxAggregateParcel,
			AggregateID:   parcel.ID,
			Version:       1,
			Actor:         buildActor(input.ActorEmail, input.ActorRole),
			Data: outbox.PaymentConfirmedPayload{
				ParcelID:      parcel.ID.String(),
				TrackingCode:  parcel.TrackingCode,
				MerchantEmail: parcel.MerchantEmail,
				Amount:        amount.String(),
				Method:        input.Method,
				PaidAt:        paidAt,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, input DeleteParcelInput) error {
	if input.ParcelID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "parcel id is required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		parcel, err := repo.FindByID(ctx, input.ParcelID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "parcel not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load parcel")
		}
		if !parcel.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				"parcel can only be deleted once delivered or cancelled")
		}

		// Tracking events are retained: the ledger outlives the parcel.
		if err := repo.Delete(ctx, parcel.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete parcel")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.OutboxEventParcelDeleted,
			AggregateType: enums.OutboxAggregateParcel,
			AggregateID:   parcel.ID,
			Version:       1,
			Actor:         buildActor(input.ActorEmail, input.ActorRole),
			Data: outbox.ParcelDeletedPayload{
				ParcelID:     parcel.ID.String(),
				TrackingCode: parcel.TrackingCode,
				LastStatus:   parcel.Status.String(),
			},
		})
	})
}

func actorOrSystem(email string) string {
	if strings.TrimSpace(email) == "" {
		return tracking.SystemActor
	}
	return email
}

func buildActor(email, role string) *outbox.ActorRef {
	if strings.TrimSpace(email) == "" {
		return nil
	}
	return &outbox.ActorRef{Email: email, Role: role}
}
