package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/asifmahmud/parceltrack-backend/api/middleware"
	"github.com/asifmahmud/parceltrack-backend/api/responses"
	"github.com/asifmahmud/parceltrack-backend/api/validators"
	"github.com/asifmahmud/parceltrack-backend/internal/parcels"
	pkgerrors "github.com/asifmahmud/parceltrack-backend/pkg/errors"
	"github.com/asifmahmud/parceltrack-backend/pkg/logger"
)

type createParcelRequest struct {
	TrackingCode   string          `json:"tracking_code" validate:"required,max=64"`
	MerchantName   string          `json:"merchant_name" validate:"required,max=120"`
	MerchantEmail  string          `json:"merchant_email" validate:"required,email"`
	SenderRegion   string          `json:"sender_region" validate:"required,max=80"`
	ReceiverRegion string          `json:"receiver_region" validate:"required,max=80"`
	SenderHub      string          `json:"sender_hub" validate:"required,max=80"`
	ReceiverHub    string          `json:"receiver_hub" validate:"required,max=80"`
	ParcelType     string          `json:"parcel_type" validate:"required,max=40"`
	Fare           decimal.Decimal `json:"fare"`
}

// CreateParcel books a new parcel for the authenticated merchant.
func CreateParcel(svc parcels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "parcels service unavailable"))
			return
		}

		var req createParcelRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		parcel, err := svc.Create(r.Context(), parcels.CreateParcelInput{
			TrackingCode:   validators.SanitizeString(req.TrackingCode, 64),
			MerchantName:   validators.SanitizeString(req.MerchantName, 120),
			MerchantEmail:  validators.SanitizeString(req.MerchantEmail, 254),
			SenderRegion:   validators.SanitizeString(req.SenderRegion, 80),
			ReceiverRegion: validators.SanitizeString(req.ReceiverRegion, 80),
			SenderHub:      validators.SanitizeString(req.SenderHub, 80),
			ReceiverHub:    validators.SanitizeString(req.ReceiverHub, 80),
			ParcelType:     validators.SanitizeString(req.ParcelType, 40),
			Fare:           req.Fare,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, parcel)
	}
}

// ListParcels returns the merchant's parcels, newest first.
func ListParcels(svc parcels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "parcels service unavailable"))
			return
		}

		email := strings.TrimSpace(r.URL.Query().Get("email"))
		if email == "" {
			email = middleware.ActorEmailFromContext(r.Context())
		}
		if email == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "merchant email is required"))
			return
		}

		summaries, err := svc.ListByMerchant(r.Context(), email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summaries)
	}
}

// GetParcelByTrackingCode fetches a single parcel by its public tracking code.
func GetParcelByTrackingCode(svc parcels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "parcels service unavailable"))
			return
		}

		trackingCode := trackingCodeParam(r)
		if trackingCode == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tracking code is required"))
			return
		}

		parcel, err := svc.GetByTrackingCode(r.Context(), trackingCode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, parcel)
	}
}

// CancelParcel runs the cancellation policy and, when allowed, cancels the parcel.
func CancelParcel(svc parcels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "parcels service unavailable"))
			return
		}

		parcelID, err := parseParcelID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		parcel, err := svc.Cancel(r.Context(), parcels.CancelParcelInput{
			ParcelID:   parcelID,
			ActorEmail: middleware.ActorEmailFromContext(r.Context()),
			ActorRole:  middleware.RoleFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, parcel)
	}
}

// DeleteParcel removes a terminal parcel. The tracking ledger is retained.
func DeleteParcel(svc parcels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "parcels service unavailable"))
			return
		}

		parcelID, err := parseParcelID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), parcels.DeleteParcelInput{
			ParcelID:   parcelID,
			ActorEmail: middleware.ActorEmailFromContext(r.Context()),
			ActorRole:  middleware.RoleFromContext(r.Context()),
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func parseParcelID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "parcelId"))
	if raw == "" {
		raw = strings.TrimSpace(chi.URLParam(r, "parcelRef"))
	}
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "parcel id is required")
	}
	parcelID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid parcel id")
	}
	return parcelID, nil
}

func trackingCodeParam(r *http.Request) string {
	raw := strings.TrimSpace(chi.URLParam(r, "trackingCode"))
	if raw == "" {
		raw = strings.TrimSpace(chi.URLParam(r, "parcelRef"))
	}
	return raw
}
