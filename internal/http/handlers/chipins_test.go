package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/chesterOps/meetro/internal/gateway"
	"github.com/chesterOps/meetro/internal/http/middleware"
	"github.com/chesterOps/meetro/internal/modules/donations"
	"github.com/chesterOps/meetro/internal/modules/events"
	"github.com/chesterOps/meetro/internal/modules/payments"
	"github.com/chesterOps/meetro/internal/modules/users"
)

type chipInFixture struct {
	db      *gorm.DB
	gateway *fakeGateway
	router  *gin.Engine
}

func newChipInFixture(t *testing.T) *chipInFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&users.User{}, &events.Event{}, &donations.Donation{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	gw := &fakeGateway{initRes: gateway.InitializeResult{AuthorizationURL: "https://checkout.test/x"}}
	eventsRepo := events.NewRepo(db)
	svc := donations.NewService(donations.NewRepo(db), eventsRepo, gw, donations.NewFeeCalculator(), "https://meetro.test")
	flows := payments.NewRegistry(payments.NewChipInFlow(svc, nil, nil))

	logger := slog.New(slog.NewTextHandler(&strings.Builder{}, nil))
	h := NewChipInHandler(logger, svc, eventsRepo, gw, flows)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler(logger))
	r.POST("/api/events/:slug/chipins", h.Create)
	r.GET("/api/payments/verify", h.Verify)

	return &chipInFixture{db: db, gateway: gw, router: r}
}

func (fx *chipInFixture) seedChipInEvent(t *testing.T) events.Event {
	t.Helper()
	now := time.Now()
	host := users.User{ID: uuid.NewString(), Name: "Ada Obi", Email: uuid.NewString() + "@example.com", PasswordHash: []byte("x"), CreatedAt: now, UpdatedAt: now}
	if err := fx.db.Create(&host).Error; err != nil {
		t.Fatalf("seed host: %v", err)
	}
	ev := events.Event{ID: uuid.NewString(), HostID: host.ID, Title: "Ada's Birthday", Slug: "adas-birthday-" + uuid.NewString()[:8], IsPrivate: true, ChipInEnabled: true, CreatedAt: now, UpdatedAt: now}
	if err := fx.db.Create(&ev).Error; err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return ev
}

func TestCreateChipIn(t *testing.T) {
	fx := newChipInFixture(t)
	ev := fx.seedChipInEvent(t)

	req := httptest.NewRequest(http.MethodPost, "/api/events/"+ev.Slug+"/chipins", strings.NewReader(`{"amount":5000,"email":"guest@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	fx.router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", w.Code, w.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["authorization_url"] != "https://checkout.test/x" {
		t.Errorf("authorization_url = %v", resp["authorization_url"])
	}
	if resp["fee"] != float64(150) {
		t.Errorf("fee = %v, want 150", resp["fee"])
	}
	if resp["reference"] == "" || resp["reference"] == nil {
		t.Error("reference missing from response")
	}
}

func TestCreateChipInValidation(t *testing.T) {
	fx := newChipInFixture(t)
	ev := fx.seedChipInEvent(t)

	tests := []struct {
		name string
		body string
	}{
		{"zero amount", `{"amount":0,"email":"g@example.com"}`},
		{"negative amount", `{"amount":-100,"email":"g@example.com"}`},
		{"missing amount", `{"email":"g@example.com"}`},
		{"bad email", `{"amount":5000,"email":"not-an-address"}`},
		{"no email and no session", `{"amount":5000}`},
		{"not json", `amount=5000`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/events/"+ev.Slug+"/chipins", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			fx.router.ServeHTTP(w, req)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestCreateChipInUnknownEvent(t *testing.T) {
	fx := newChipInFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/events/no-such-event/chipins", strings.NewReader(`{"amount":5000,"email":"guest@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	fx.router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestVerifyPayment(t *testing.T) {
	fx := newChipInFixture(t)
	ev := fx.seedChipInEvent(t)

	// Initiate through the API so the pending record and reference exist.
	req := httptest.NewRequest(http.MethodPost, "/api/events/"+ev.Slug+"/chipins", strings.NewReader(`{"amount":5000,"email":"guest@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	fx.router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("initiate: status = %d", w.Code)
	}
	var initResp map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &initResp)
	reference := initResp["reference"].(string)

	fx.gateway.verifyTx = gateway.VerifiedTransaction{
		Reference: reference,
		Status:    "success",
		Amount:    515000,
		Metadata:  gateway.TransactionMetadata{PaymentType: "chipin"},
	}

	req = httptest.NewRequest(http.MethodGet, "/api/payments/verify?reference="+reference, nil)
	w = httptest.NewRecorder()
	fx.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("verify: status = %d; body: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data payments.ChipInReceipt `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode receipt: %v", err)
	}
	if resp.Data.Status != donations.StatusCompleted {
		t.Errorf("receipt status = %q, want completed", resp.Data.Status)
	}
	if resp.Data.Event.Title != ev.Title {
		t.Errorf("receipt event title = %q, want %q", resp.Data.Event.Title, ev.Title)
	}

	// The verify path must converge with the webhook: re-verifying returns
	// the same completed receipt without a second transition.
	w = httptest.NewRecorder()
	fx.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/payments/verify?reference="+reference, nil))
	if w.Code != http.StatusOK {
		t.Errorf("second verify: status = %d, want 200", w.Code)
	}
}

func TestVerifyPaymentRequiresReference(t *testing.T) {
	fx := newChipInFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/payments/verify", nil)
	w := httptest.NewRecorder()
	fx.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestVerifyPaymentUnsuccessfulCharge(t *testing.T) {
	fx := newChipInFixture(t)

	fx.gateway.verifyTx = gateway.VerifiedTransaction{
		Reference: "CHIP-IN_1_abc",
		Status:    "abandoned",
		Metadata:  gateway.TransactionMetadata{PaymentType: "chipin"},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/payments/verify?reference=CHIP-IN_1_abc", nil)
	w := httptest.NewRecorder()
	fx.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
