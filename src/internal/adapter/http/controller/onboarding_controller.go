package controller

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/api-sage/card-payment-engine/src/internal/adapter/http/models"
	"github.com/api-sage/card-payment-engine/src/internal/usecase/service_interfaces"
)

// OnboardingController serves accounts, cards and merchants.
type OnboardingController struct {
	service service_interfaces.OnboardingService
}

func NewOnboardingController(service service_interfaces.OnboardingService) *OnboardingController {
	return &OnboardingController{service: service}
}

func (c *OnboardingController) RegisterRoutes(r chi.Router) {
	r.Route("/accounts", func(r chi.Router) {
		r.Post("/", c.openAccount)
		r.Get("/{id}", c.getAccount)
		r.Post("/{id}/credit", c.creditAccount)
		r.Patch("/{id}/status", c.setAccountStatus)
	})
	r.Route("/cards", func(r chi.Router) {
		r.Post("/", c.registerCard)
		r.Get("/{id}", c.getCard)
		r.Patch("/{id}/status", c.setCardStatus)
		r.Post("/{id}/verify-cvv", c.verifyCVV)
	})
	r.Route("/merchants", func(r chi.Router) {
		r.Post("/", c.registerMerchant)
		r.Get("/{id}", c.getMerchant)
		r.Patch("/{id}/status", c.setMerchantStatus)
	})
}

func (c *OnboardingController) openAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.OpenAccountRequest
	if !decodeBody[models.AccountResponse](w, r, start, &req) {
		return
	}

	response, err := c.service.OpenAccount(r.Context(), req)
	respond(w, r, start, http.StatusCreated, response, err)
}

func (c *OnboardingController) getAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.GetAccount(r.Context(), chi.URLParam(r, "id"))
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *OnboardingController) creditAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.CreditAccountRequest
	if !decodeBody[models.AccountResponse](w, r, start, &req) {
		return
	}

	response, err := c.service.CreditAccount(r.Context(), chi.URLParam(r, "id"), req)
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *OnboardingController) setAccountStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.UpdateStatusRequest
	if !decodeBody[models.AccountResponse](w, r, start, &req) {
		return
	}

	response, err := c.service.SetAccountStatus(r.Context(), chi.URLParam(r, "id"), req)
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *OnboardingController) registerCard(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.RegisterCardRequest
	if !decodeBody[models.CardResponse](w, r, start, &req) {
		return
	}

	response, err := c.service.RegisterCard(r.Context(), req)
	respond(w, r, start, http.StatusCreated, response, err)
}

func (c *OnboardingController) getCard(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.GetCard(r.Context(), chi.URLParam(r, "id"))
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *OnboardingController) setCardStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.UpdateStatusRequest
	if !decodeBody[models.CardResponse](w, r, start, &req) {
		return
	}

	response, err := c.service.SetCardStatus(r.Context(), chi.URLParam(r, "id"), req)
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *OnboardingController) verifyCVV(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.VerifyCVVRequest
	if !decodeBody[models.VerifyCVVResponse](w, r, start, &req) {
		return
	}

	response, err := c.service.VerifyCVV(r.Context(), chi.URLParam(r, "id"), req)
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *OnboardingController) registerMerchant(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.RegisterMerchantRequest
	if !decodeBody[models.MerchantResponse](w, r, start, &req) {
		return
	}

	response, err := c.service.RegisterMerchant(r.Context(), req)
	respond(w, r, start, http.StatusCreated, response, err)
}

func (c *OnboardingController) getMerchant(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.GetMerchant(r.Context(), chi.URLParam(r, "id"))
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *OnboardingController) setMerchantStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.UpdateStatusRequest
	if !decodeBody[models.MerchantResponse](w, r, start, &req) {
		return
	}

	response, err := c.service.SetMerchantStatus(r.Context(), chi.URLParam(r, "id"), req)
	respond(w, r, start, http.StatusOK, response, err)
}
