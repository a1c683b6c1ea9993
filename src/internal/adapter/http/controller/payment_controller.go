package controller

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/api-sage/card-payment-engine/src/internal/adapter/http/models"
	"github.com/api-sage/card-payment-engine/src/internal/usecase/service_interfaces"
)

type PaymentController struct {
	service service_interfaces.PaymentService
}

func NewPaymentController(service service_interfaces.PaymentService) *PaymentController {
	return &PaymentController{service: service}
}

func (c *PaymentController) RegisterRoutes(r chi.Router) {
	r.Route("/transactions", func(r chi.Router) {
		r.Get("/", c.list)
		r.Post("/authorize", c.authorize)
		r.Get("/{id}", c.get)
		r.Post("/{id}/capture", c.capture)
		r.Post("/{id}/settle", c.settle)
		r.Get("/{id}/wire", c.wire)
	})
	r.Post("/wire/decode", c.decodeWire)
}

func (c *PaymentController) authorize(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.AuthorizeRequest
	if !decodeBody[models.TransactionResponse](w, r, start, &req) {
		return
	}

	response, err := c.service.Authorize(r.Context(), req)
	respond(w, r, start, http.StatusCreated, response, err)
}

func (c *PaymentController) capture(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.Capture(r.Context(), chi.URLParam(r, "id"))
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *PaymentController) settle(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.Settle(r.Context(), chi.URLParam(r, "id"))
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *PaymentController) get(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.GetTransaction(r.Context(), chi.URLParam(r, "id"))
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *PaymentController) list(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.ListTransactions(r.Context(), r.URL.Query().Get("status"))
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *PaymentController) wire(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.TransactionWire(r.Context(), chi.URLParam(r, "id"))
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *PaymentController) decodeWire(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.DecodeWireRequest
	if !decodeBody[models.WireMessageResponse](w, r, start, &req) {
		return
	}

	response, err := c.service.DecodeWire(r.Context(), req)
	respond(w, r, start, http.StatusOK, response, err)
}
