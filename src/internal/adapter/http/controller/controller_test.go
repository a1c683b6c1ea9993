package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/api-sage/card-payment-engine/src/internal/adapter/http/controller"
	"github.com/api-sage/card-payment-engine/src/internal/adapter/repository/memory"
	"github.com/api-sage/card-payment-engine/src/internal/currency"
	"github.com/api-sage/card-payment-engine/src/internal/engine"
	"github.com/api-sage/card-payment-engine/src/internal/logger"
	"github.com/api-sage/card-payment-engine/src/internal/security"
	"github.com/api-sage/card-payment-engine/src/internal/usecase/services"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	sec, err := security.NewManager(security.Config{})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	eng := engine.New(sec, engine.WithClock(func() time.Time {
		return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	}))

	rates := memory.NewRateRepository()
	rateList, _ := rates.GetRates(context.Background())
	currencies, _ := rates.GetCurrencies(context.Background())
	converter := currency.NewConverter(rateList, currencies)

	r := chi.NewRouter()
	controller.NewOnboardingController(services.NewOnboardingService(eng, converter)).RegisterRoutes(r)
	controller.NewPaymentController(services.NewPaymentService(eng, nil, nil)).RegisterRoutes(r)
	controller.NewSettlementController(services.NewSettlementService(eng, nil, nil)).RegisterRoutes(r)
	controller.NewRateController(services.NewRateService(rates, converter)).RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method string, path string, body any, wantStatus int) envelope {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: expected status %d, got %d (%s %v)", method, path, wantStatus, resp.StatusCode, env.Message, env.Errors)
	}
	return env
}

func dataID(t *testing.T, env envelope) string {
	t.Helper()
	var data struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	return data.ID
}

func TestPaymentController_FlowOverHTTP(t *testing.T) {
	srv := newServer(t)

	account := dataID(t, call(t, srv, http.MethodPost, "/accounts", map[string]string{
		"holderName":     "Ada Lovelace",
		"currency":       "EUR",
		"initialDeposit": "500",
	}, http.StatusCreated))

	card := dataID(t, call(t, srv, http.MethodPost, "/cards", map[string]any{
		"accountId":      account,
		"pan":            "4111111111111111",
		"expiryMonth":    12,
		"expiryYear":     2030,
		"cvv":            "123",
		"cardholderName": "Ada Lovelace",
	}, http.StatusCreated))

	merchant := dataID(t, call(t, srv, http.MethodPost, "/merchants", map[string]string{
		"name":       "Corner Shop",
		"category":   "5411",
		"acquirerId": uuid.NewString(),
	}, http.StatusCreated))

	tx := dataID(t, call(t, srv, http.MethodPost, "/transactions/authorize", map[string]string{
		"cardId":     card,
		"merchantId": merchant,
		"amount":     "100",
		"currency":   "EUR",
	}, http.StatusCreated))

	call(t, srv, http.MethodPost, "/transactions/"+tx+"/settle", nil, http.StatusConflict)
	call(t, srv, http.MethodPost, "/transactions/"+tx+"/capture", nil, http.StatusOK)
	call(t, srv, http.MethodPost, "/transactions/"+tx+"/settle", nil, http.StatusOK)
	call(t, srv, http.MethodGet, "/transactions/"+tx+"/wire", nil, http.StatusOK)

	batch := dataID(t, call(t, srv, http.MethodPost, "/settlements", map[string]any{
		"issuerId":       uuid.NewString(),
		"acquirerId":     uuid.NewString(),
		"transactionIds": []string{tx},
	}, http.StatusCreated))
	call(t, srv, http.MethodPost, "/settlements/"+batch+"/process", nil, http.StatusOK)
	call(t, srv, http.MethodPost, "/settlements/"+batch+"/process", nil, http.StatusConflict)

	env := call(t, srv, http.MethodGet, "/accounts/"+account, nil, http.StatusOK)
	var balance struct {
		Balance string `json:"balance"`
	}
	_ = json.Unmarshal(env.Data, &balance)
	if balance.Balance != "400" {
		t.Fatalf("expected balance 400, got %s", balance.Balance)
	}
}

func TestControllers_ErrorStatusesOverHTTP(t *testing.T) {
	srv := newServer(t)

	call(t, srv, http.MethodGet, "/transactions/"+uuid.NewString(), nil, http.StatusNotFound)
	call(t, srv, http.MethodGet, "/transactions/not-a-uuid", nil, http.StatusBadRequest)
	call(t, srv, http.MethodGet, "/transactions?status=bogus", nil, http.StatusBadRequest)
	call(t, srv, http.MethodPost, "/transactions/authorize", map[string]string{"amount": "1"}, http.StatusBadRequest)
	call(t, srv, http.MethodPost, "/accounts", map[string]string{"unexpected": "field"}, http.StatusBadRequest)
	call(t, srv, http.MethodPost, "/wire/decode", map[string]string{"hex": "30313030"}, http.StatusBadRequest)
	call(t, srv, http.MethodGet, "/settlements/pending", nil, http.StatusOK)
}

func TestPaymentController_DeclineIsUnprocessable(t *testing.T) {
	srv := newServer(t)

	account := dataID(t, call(t, srv, http.MethodPost, "/accounts", map[string]string{
		"holderName": "Grace Hopper",
		"currency":   "EUR",
	}, http.StatusCreated))
	card := dataID(t, call(t, srv, http.MethodPost, "/cards", map[string]any{
		"accountId":      account,
		"pan":            "5555555555554444",
		"expiryMonth":    1,
		"expiryYear":     2031,
		"cvv":            "321",
		"cardholderName": "Grace Hopper",
	}, http.StatusCreated))
	merchant := dataID(t, call(t, srv, http.MethodPost, "/merchants", map[string]string{
		"name":       "Book Store",
		"category":   "5942",
		"acquirerId": uuid.NewString(),
	}, http.StatusCreated))

	env := call(t, srv, http.MethodPost, "/transactions/authorize", map[string]string{
		"cardId":     card,
		"merchantId": merchant,
		"amount":     "10",
		"currency":   "EUR",
	}, http.StatusUnprocessableEntity)
	if env.Success {
		t.Fatal("expected failed response")
	}
}

func TestRateController_RatesOverHTTP(t *testing.T) {
	srv := newServer(t)

	call(t, srv, http.MethodGet, "/rates", nil, http.StatusOK)
	call(t, srv, http.MethodGet, "/rate?fromCurrency=EUR&toCurrency=GBP", nil, http.StatusOK)
	call(t, srv, http.MethodGet, "/rate?fromCurrency=EUR", nil, http.StatusBadRequest)
	call(t, srv, http.MethodPost, "/rates/convert", map[string]string{
		"amount":  "10",
		"fromCcy": "EUR",
		"toCcy":   "USD",
	}, http.StatusOK)
}
