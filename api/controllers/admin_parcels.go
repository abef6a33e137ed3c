package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/asifmahmud/parceltrack-backend/api/middleware"
	"github.com/asifmahmud/parceltrack-backend/api/responses"
	"github.com/asifmahmud/parceltrack-backend/api/validators"
	"github.com/asifmahmud/parceltrack-backend/internal/parcels"
	"github.com/asifmahmud/parceltrack-backend/pkg/enums"
	pkgerrors "github.com/asifmahmud/parceltrack-backend/pkg/errors"
	"github.com/asifmahmud/parceltrack-backend/pkg/logger"
)

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminUpdateParcelStatus moves a parcel to a new lifecycle status.
func AdminUpdateParcelStatus(svc parcels.Service, logg *logger.Logger) http.HandlerFunc {
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

		var req updateStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseParcelStatus(strings.TrimSpace(req.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		parcel, err := svc.AdvanceStatus(r.Context(), parcels.AdvanceStatusInput{
			ParcelID:   parcelID,
			NewStatus:  status,
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

type confirmPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method" validate:"omitempty,max=40"`
	Reference string          `json:"reference" validate:"omitempty,max=120"`
}

// ConfirmPayment marks a parcel as paid and writes the payment ledger entry.
func ConfirmPayment(svc parcels.Service, logg *logger.Logger) http.HandlerFunc {
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

		var req confirmPaymentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		parcel, err := svc.ConfirmPayment(r.Context(), parcels.ConfirmPaymentInput{
			TrackingCode: trackingCode,
			Amount:       req.Amount,
			Method:       validators.SanitizeString(req.Method, 40),
			Reference:    validators.SanitizeString(req.Reference, 120),
			ActorEmail:   middleware.ActorEmailFromContext(r.Context()),
			ActorRole:    middleware.RoleFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, parcel)
	}
}
