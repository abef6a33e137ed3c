package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/asifmahmud/parceltrack-backend/internal/notifications"
	"github.com/asifmahmud/parceltrack-backend/internal/parcels"
	"github.com/asifmahmud/parceltrack-backend/internal/tracking"
	pkgAuth "github.com/asifmahmud/parceltrack-backend/pkg/auth"
	"github.com/asifmahmud/parceltrack-backend/pkg/config"
	"github.com/asifmahmud/parceltrack-backend/pkg/db/models"
	"github.com/asifmahmud/parceltrack-backend/pkg/enums"
	"github.com/asifmahmud/parceltrack-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubParcelsService struct{}

func (stubParcelsService) Create(context.Context, parcels.CreateParcelInput) (*models.Parcel, error) {
	return &models.Parcel{ID: uuid.New(), Status: enums.ParcelStatusPending}, nil
}

func (stubParcelsService) GetByTrackingCode(_ context.Context, trackingCode string) (*models.Parcel, error) {
	return &models.Parcel{ID: uuid.New(), TrackingCode: trackingCode}, nil
}

func (stubParcelsService) ListByMerchant(context.Context, string) ([]parcels.ParcelSummary, error) {
	return []parcels.ParcelSummary{}, nil
}

func (stubParcelsService) Cancel(context.Context, parcels.CancelParcelInput) (*models.Parcel, error) {
	return &models.Parcel{Status: enums.ParcelStatusCancelled}, nil
}

func (stubParcelsService) AdvanceStatus(context.Context, parcels.AdvanceStatusInput) (*models.Parcel, error) {
	return &models.Parcel{}, nil
}

func (stubParcelsService) ConfirmPayment(context.Context, parcels.ConfirmPaymentInput) (*models.Parcel, error) {
	return &models.Parcel{}, nil
}

func (stubParcelsService) Delete(context.Context, parcels.DeleteParcelInput) error {
	return nil
}

type stubTrackingService struct{}

func (stubTrackingService) Append(context.Context, tracking.AppendEventInput) (*models.TrackingEvent, error) {
	return &models.TrackingEvent{}, nil
}

func (stubTrackingService) ListForParcel(context.Context, uuid.UUID) ([]models.TrackingEvent, error) {
	return []models.TrackingEvent{}, nil
}

func (stubTrackingService) ListForTrackingCode(context.Context, string) ([]models.TrackingEvent, error) {
	return []models.TrackingEvent{}, nil
}

type stubNotificationsService struct{}

func (stubNotificationsService) List(context.Context, notifications.ListParams) (*notifications.ListResult, error) {
	return &notifications.ListResult{Items: []models.Notification{}}, nil
}

func (stubNotificationsService) MarkRead(context.Context, string, uuid.UUID) error {
	return nil
}

func (stubNotificationsService) MarkAllRead(context.Context, string) (int64, error) {
	return 0, nil
}

func testRouterConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return NewRouter(Deps{
		Config:        testRouterConfig(),
		Logger:        logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		DB:            stubPinger{},
		Parcels:       stubParcelsService{},
		Tracking:      stubTrackingService{},
		Notifications: stubNotificationsService{},
	})
}

func mintToken(t *testing.T, role enums.MemberRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(testRouterConfig().JWT, time.Now(), pkgAuth.AccessTokenPayload{
		Email: "m@acme.test",
		Name:  "Merchant",
		Role:  role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(t)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestParcelsRequireAuth(t *testing.T) {
	router := newTestRouter(t)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/parcels", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCreateParcelRequiresMerchantRole(t *testing.T) {
	router := newTestRouter(t)
	body := `{"tracking_code":"PT-1","merchant_name":"Acme","merchant_email":"m@acme.test","sender_region":"Dhaka","receiver_region":"Sylhet","sender_hub":"Hub A","receiver_hub":"Hub B","parcel_type":"regular","fare":"10"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/parcels", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.MemberRoleRider))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestCreateParcelAsMerchant(t *testing.T) {
	router := newTestRouter(t)
	body := `{"tracking_code":"PT-1","merchant_name":"Acme","merchant_email":"m@acme.test","sender_region":"Dhaka","receiver_region":"Sylhet","sender_hub":"Hub A","receiver_hub":"Hub B","parcel_type":"regular","fare":"10"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/parcels", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.MemberRoleMerchant))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestGetParcelByTrackingCodeRoute(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/parcels/PT-55", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.MemberRoleMerchant))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data models.Parcel `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.TrackingCode != "PT-55" {
		t.Fatalf("expected tracking code PT-55 got %s", envelope.Data.TrackingCode)
	}
}

func TestCancelParcelRoute(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/parcels/"+uuid.NewString()+"/cancel", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.MemberRoleMerchant))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAdminRoutesRejectMerchant(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/payments", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.MemberRoleMerchant))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}
