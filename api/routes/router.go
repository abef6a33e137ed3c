package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/asifmahmud/parceltrack-backend/api/controllers"
	"github.com/asifmahmud/parceltrack-backend/api/middleware"
	"github.com/asifmahmud/parceltrack-backend/internal/notifications"
	"github.com/asifmahmud/parceltrack-backend/internal/parcels"
	"github.com/asifmahmud/parceltrack-backend/internal/payments"
	"github.com/asifmahmud/parceltrack-backend/internal/tracking"
	"github.com/asifmahmud/parceltrack-backend/pkg/config"
	"github.com/asifmahmud/parceltrack-backend/pkg/enums"
	"github.com/asifmahmud/parceltrack-backend/pkg/logger"
	pkgmetrics "github.com/asifmahmud/parceltrack-backend/pkg/metrics"
	"github.com/asifmahmud/parceltrack-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Config        *config.Config
	Logger        *logger.Logger
	HTTPMetrics   *pkgmetrics.HTTPMetrics
	MetricsGather prometheus.Gatherer
	DB            controllers.Pinger
	Redis         *redis.Client

	Parcels       parcels.Service
	Tracking      tracking.Service
	Notifications notifications.Service
	Payments      payments.Repository
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	var idemStore redis.IdempotencyStore
	var cache controllers.Pinger
	if deps.Redis != nil {
		idemStore = deps.Redis
		cache = deps.Redis
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(),
		middleware.Logging(logg, deps.HTTPMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, cache, logg))
	})

	if deps.MetricsGather != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.MetricsGather, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Route("/parcels", func(r chi.Router) {
			r.With(middleware.RequireRole(string(enums.MemberRoleMerchant), logg)).
				Post("/", controllers.CreateParcel(deps.Parcels, logg))
			r.Get("/", controllers.ListParcels(deps.Parcels, logg))
			// chi requires one wildcard name per level; {parcelRef} holds a
			// tracking code for fetch/payment and a parcel id for cancel/delete.
			r.Route("/{parcelRef}", func(r chi.Router) {
				r.Get("/", controllers.GetParcelByTrackingCode(deps.Parcels, logg))
				r.Patch("/payment", controllers.ConfirmPayment(deps.Parcels, logg))
				r.Patch("/cancel", controllers.CancelParcel(deps.Parcels, logg))
				r.Delete("/", controllers.DeleteParcel(deps.Parcels, logg))
			})
		})

		r.Route("/tracking", func(r chi.Router) {
			r.Post("/", controllers.AppendTrackingEvent(deps.Tracking, logg))
			r.Get("/{parcelId}", controllers.ListTrackingEvents(deps.Tracking, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(deps.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(deps.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(deps.Notifications, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(string(enums.MemberRoleAdmin), logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Patch("/parcels/{parcelId}/status", controllers.AdminUpdateParcelStatus(deps.Parcels, logg))
		r.Get("/payments", controllers.AdminListPayments(deps.Payments, logg))
	})

	return r
}
