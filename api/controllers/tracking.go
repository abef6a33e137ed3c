package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/asifmahmud/parceltrack-backend/api/middleware"
	"github.com/asifmahmud/parceltrack-backend/api/responses"
	"github.com/asifmahmud/parceltrack-backend/api/validators"
	"github.com/asifmahmud/parceltrack-backend/internal/tracking"
	"github.com/asifmahmud/parceltrack-backend/pkg/enums"
	pkgerrors "github.com/asifmahmud/parceltrack-backend/pkg/errors"
	"github.com/asifmahmud/parceltrack-backend/pkg/logger"
)

type appendTrackingRequest struct {
	ParcelID     string `json:"parcel_id" validate:"required"`
	TrackingCode string `json:"tracking_code" validate:"required,max=64"`
	Status       string `json:"status" validate:"required"`
	Message      string `json:"message" validate:"omitempty,max=500"`
}

// AppendTrackingEvent records a ledger entry for a parcel. The write is
// log-first: no parcel existence check is performed.
func AppendTrackingEvent(svc tracking.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tracking service unavailable"))
			return
		}

		var req appendTrackingRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		parcelID, err := uuid.Parse(strings.TrimSpace(req.ParcelID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid parcel id"))
			return
		}

		status, err := enums.ParseParcelStatus(strings.TrimSpace(req.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		event, err := svc.Append(r.Context(), tracking.AppendEventInput{
			ParcelID:     parcelID,
			TrackingCode: validators.SanitizeString(req.TrackingCode, 64),
			Status:       status,
			Message:      validators.SanitizeString(req.Message, 500),
			Actor:        middleware.ActorEmailFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, event)
	}
}

// ListTrackingEvents returns the parcel's ledger in chronological order.
func ListTrackingEvents(svc tracking.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tracking service unavailable"))
			return
		}

		raw := strings.TrimSpace(chi.URLParam(r, "parcelId"))
		if raw == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "parcel id is required"))
			return
		}
		parcelID, err := uuid.Parse(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid parcel id"))
			return
		}

		events, err := svc.ListForParcel(r.Context(), parcelID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, events)
	}
}
