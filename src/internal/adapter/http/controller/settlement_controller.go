package controller

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/api-sage/card-payment-engine/src/internal/adapter/http/models"
	"github.com/api-sage/card-payment-engine/src/internal/usecase/service_interfaces"
)

type SettlementController struct {
	service service_interfaces.SettlementService
}

func NewSettlementController(service service_interfaces.SettlementService) *SettlementController {
	return &SettlementController{service: service}
}

func (c *SettlementController) RegisterRoutes(r chi.Router) {
	r.Route("/settlements", func(r chi.Router) {
		r.Post("/", c.create)
		r.Get("/pending", c.pending)
		r.Get("/net", c.net)
		r.Get("/{id}", c.get)
		r.Post("/{id}/process", c.process)
	})
}

func (c *SettlementController) create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.CreateBatchRequest
	if !decodeBody[models.BatchResponse](w, r, start, &req) {
		return
	}

	response, err := c.service.CreateBatch(r.Context(), req)
	respond(w, r, start, http.StatusCreated, response, err)
}

func (c *SettlementController) process(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.ProcessBatch(r.Context(), chi.URLParam(r, "id"))
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *SettlementController) get(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.GetBatch(r.Context(), chi.URLParam(r, "id"))
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *SettlementController) pending(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.PendingBatches(r.Context())
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *SettlementController) net(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	query := r.URL.Query()
	response, err := c.service.NetSettlement(r.Context(), query.Get("issuerId"), query.Get("acquirerId"))
	respond(w, r, start, http.StatusOK, response, err)
}
