package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/asifmahmud/parceltrack-backend/api/middleware"
	"github.com/asifmahmud/parceltrack-backend/internal/parcels"
	"github.com/asifmahmud/parceltrack-backend/pkg/db/models"
	"github.com/asifmahmud/parceltrack-backend/pkg/enums"
	pkgerrors "github.com/asifmahmud/parceltrack-backend/pkg/errors"
	"github.com/asifmahmud/parceltrack-backend/pkg/logger"
)

type testParcelsService struct {
	createFn         func(ctx context.Context, input parcels.CreateParcelInput) (*models.Parcel, error)
	getFn            func(ctx context.Context, trackingCode string) (*models.Parcel, error)
	listFn           func(ctx context.Context, merchantEmail string) ([]parcels.ParcelSummary, error)
	cancelFn         func(ctx context.Context, input parcels.CancelParcelInput) (*models.Parcel, error)
	advanceFn        func(ctx context.Context, input parcels.AdvanceStatusInput) (*models.Parcel, error)
	confirmPaymentFn func(ctx context.Context, input parcels.ConfirmPaymentInput) (*models.Parcel, error)
	deleteFn         func(ctx context.Context, input parcels.DeleteParcelInput) error
}

func (s *testParcelsService) Create(ctx context.Context, input parcels.CreateParcelInput) (*models.Parcel, error) {
	if s.createFn != nil {
		return s.createFn(ctx, input)
	}
	return nil, nil
}

func (s *testParcelsService) GetByTrackingCode(ctx context.Context, trackingCode string) (*models.Parcel, error) {
	if s.getFn != nil {
		return s.getFn(ctx, trackingCode)
	}
	return nil, nil
}

func (s *testParcelsService) ListByMerchant(ctx context.Context, merchantEmail string) ([]parcels.ParcelSummary, error) {
	if s.listFn != nil {
		return s.listFn(ctx, merchantEmail)
	}
	return nil, nil
}

func (s *testParcelsService) Cancel(ctx context.Context, input parcels.CancelParcelInput) (*models.Parcel, error) {
	if s.cancelFn != nil {
		return s.cancelFn(ctx, input)
	}
	return nil, nil
}

func (s *testParcelsService) AdvanceStatus(ctx context.Context, input parcels.AdvanceStatusInput) (*models.Parcel, error) {
	if s.advanceFn != nil {
		return s.advanceFn(ctx, input)
	}
	return nil, nil
}

func (s *testParcelsService) ConfirmPayment(ctx context.Context, input parcels.ConfirmPaymentInput) (*models.Parcel, error) {
	if s.confirmPaymentFn != nil {
		return s.confirmPaymentFn(ctx, input)
	}
	return nil, nil
}

func (s *testParcelsService) Delete(ctx context.Context, input parcels.DeleteParcelInput) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, input)
	}
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func addRouteParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestCreateParcelReturns201(t *testing.T) {
	called := false
	svc := &testParcelsService{
		createFn: func(ctx context.Context, input parcels.CreateParcelInput) (*models.Parcel, error) {
			called = true
			if input.TrackingCode != "PT-100" {
				t.Fatalf("unexpected tracking code %s", input.TrackingCode)
			}
			return &models.Parcel{ID: uuid.New(), TrackingCode: input.TrackingCode, Status: enums.ParcelStatusPending}, nil
		},
	}

	body := `{"tracking_code":"PT-100","merchant_name":"Acme","merchant_email":"m@acme.test","sender_region":"Dhaka","receiver_region":"Sylhet","sender_hub":"Hub A","receiver_hub":"Hub B","parcel_type":"regular","fare":"120.50"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/parcels", strings.NewReader(body))
	resp := httptest.NewRecorder()
	CreateParcel(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if !called {
		t.Fatal("expected service called")
	}
}

func TestCreateParcelRejectsBadBody(t *testing.T) {
	svc := &testParcelsService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/parcels", strings.NewReader(`{"merchant_email":"not-an-email"}`))
	resp := httptest.NewRecorder()
	CreateParcel(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("expected validation code got %s", envelope.Error.Code)
	}
}

func TestGetParcelNotFound(t *testing.T) {
	svc := &testParcelsService{
		getFn: func(ctx context.Context, trackingCode string) (*models.Parcel, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "parcel not found")
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/parcels/PT-404", nil)
	req = addRouteParam(req, "trackingCode", "PT-404")
	resp := httptest.NewRecorder()
	GetParcelByTrackingCode(svc, testLogger())(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestCancelParcelSurfacesPolicyReason(t *testing.T) {
	parcelID := uuid.New()
	svc := &testParcelsService{
		cancelFn: func(ctx context.Context, input parcels.CancelParcelInput) (*models.Parcel, error) {
			if input.ParcelID != parcelID {
				t.Fatalf("unexpected parcel id %s", input.ParcelID)
			}
			return nil, pkgerrors.New(pkgerrors.CodePolicy, "cancellation window (24h) expired")
		},
	}

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/parcels/"+parcelID.String()+"/cancel", nil)
	req = req.WithContext(middleware.WithActorEmail(req.Context(), "m@acme.test"))
	req = addRouteParam(req, "parcelId", parcelID.String())
	resp := httptest.NewRecorder()
	CancelParcel(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodePolicy) {
		t.Fatalf("expected policy code got %s", envelope.Error.Code)
	}
	if envelope.Error.Message != "cancellation window (24h) expired" {
		t.Fatalf("expected verbatim reason got %q", envelope.Error.Message)
	}
}

func TestCancelParcelInvalidID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/parcels/invalid/cancel", nil)
	req = addRouteParam(req, "parcelId", "invalid")
	resp := httptest.NewRecorder()
	CancelParcel(&testParcelsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestConfirmPaymentConflict(t *testing.T) {
	svc := &testParcelsService{
		confirmPaymentFn: func(ctx context.Context, input parcels.ConfirmPaymentInput) (*models.Parcel, error) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "payment already confirmed")
		},
	}
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/parcels/PT-1/payment", strings.NewReader(`{}`))
	req = addRouteParam(req, "trackingCode", "PT-1")
	resp := httptest.NewRecorder()
	ConfirmPayment(svc, testLogger())(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestAdminUpdateParcelStatusRejectsUnknownStatus(t *testing.T) {
	parcelID := uuid.New()
	req := httptest.NewRequest(http.MethodPatch, "/api/admin/v1/parcels/"+parcelID.String()+"/status", strings.NewReader(`{"status":"teleported"}`))
	req = addRouteParam(req, "parcelId", parcelID.String())
	resp := httptest.NewRecorder()
	AdminUpdateParcelStatus(&testParcelsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestListParcelsUsesActorEmailFallback(t *testing.T) {
	var gotEmail string
	svc := &testParcelsService{
		listFn: func(ctx context.Context, merchantEmail string) ([]parcels.ParcelSummary, error) {
			gotEmail = merchantEmail
			return []parcels.ParcelSummary{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/parcels", nil)
	req = req.WithContext(middleware.WithActorEmail(req.Context(), "m@acme.test"))
	resp := httptest.NewRecorder()
	ListParcels(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if gotEmail != "m@acme.test" {
		t.Fatalf("expected actor email fallback got %q", gotEmail)
	}
}
