package controllers

import (
	"net/http"
	"strings"

	"github.com/asifmahmud/parceltrack-backend/api/responses"
	"github.com/asifmahmud/parceltrack-backend/internal/payments"
	pkgerrors "github.com/asifmahmud/parceltrack-backend/pkg/errors"
	"github.com/asifmahmud/parceltrack-backend/pkg/logger"
)

// AdminListPayments returns the payment ledger, optionally filtered by merchant.
func AdminListPayments(repo payments.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments repository unavailable"))
			return
		}

		email := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("email")))
		records, err := repo.List(r.Context(), email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments"))
			return
		}
		responses.WriteSuccess(w, records)
	}
}
