package tracking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/asifmahmud/parceltrack-backend/pkg/db/models"
	"github.com/asifmahmud/parceltrack-backend/pkg/enums"
	apperrors "github.com/asifmahmud/parceltrack-backend/pkg/errors"
)

// SystemActor is recorded when no human actor produced the event.
const SystemActor = "System"

// Service defines operations on the append-only tracking ledger.
type Service interface {
	Append(ctx context.Context, input AppendEventInput) (*models.TrackingEvent, error)
	ListForParcel(ctx context.Context, parcelID uuid.UUID) ([]models.TrackingEvent, error)
	ListForTrackingCode(ctx context.Context, trackingCode string) ([]models.TrackingEvent, error)
}

// AppendEventInput captures the immutable data a tracking event requires.
// ParcelID is a weak reference: append never checks the parcel exists.
type AppendEventInput struct {
	ParcelID     uuid.UUID          `json:"parcel_id"`
	TrackingCode string             `json:"tracking_code"`
	Status       enums.ParcelStatus `json:"status"`
	Message      string             `json:"message"`
	Actor        string             `json:"actor"`
	EventAt      time.Time          `json:"event_at"`
}

type service struct {
	repo Repository
}

// NewService wires a tracking service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tracking repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Append(ctx context.Context, input AppendEventInput) (*models.TrackingEvent, error) {
	if input.ParcelID == uuid.Nil {
		return nil, apperrors.New(apperrors.CodeValidation, "parcel id is required")
	}
	if strings.TrimSpace(input.TrackingCode) == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "tracking code is required")
	}
	if !input.Status.IsValid() {
		return nil, apperrors.New(apperrors.CodeValidation,
			fmt.Sprintf("invalid parcel status %q", input.Status))
	}

	actor := strings.TrimSpace(input.Actor)
	if actor == "" {
		actor = SystemActor
	}
	eventAt := input.EventAt
	if eventAt.IsZero() {
		eventAt = time.Now().UTC()
	}

	event := &models.TrackingEvent{
		ParcelID:     input.ParcelID,
		TrackingCode: input.TrackingCode,
		Status:       input.Status,
		Message:      input.Message,
		Actor:        actor,
		EventAt:      eventAt,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "appending tracking event")
	}
	return event, nil
}

func (s *service) ListForParcel(ctx context.Context, parcelID uuid.UUID) ([]models.TrackingEvent, error) {
	if parcelID == uuid.Nil {
		return nil, apperrors.New(apperrors.CodeValidation, "parcel id is required")
	}
	events, err := s.repo.ListByParcelID(ctx, parcelID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "listing tracking events")
	}
	return events, nil
}

func (s *service) ListForTrackingCode(ctx context.Context, trackingCode string) ([]models.TrackingEvent, error) {
	if strings.TrimSpace(trackingCode) == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "tracking code is required")
	}
	events, err := s.repo.ListByTrackingCode(ctx, trackingCode)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "listing tracking events")
	}
	return events, nil
}
