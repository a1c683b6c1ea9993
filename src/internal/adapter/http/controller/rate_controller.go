package controller

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/api-sage/card-payment-engine/src/internal/adapter/http/models"
	"github.com/api-sage/card-payment-engine/src/internal/usecase/service_interfaces"
)

type RateController struct {
	service service_interfaces.RateService
}

func NewRateController(service service_interfaces.RateService) *RateController {
	return &RateController{service: service}
}

func (c *RateController) RegisterRoutes(r chi.Router) {
	r.Get("/rates", c.getRates)
	r.Get("/rate", c.getRate)
	r.Post("/rates/convert", c.convert)
}

func (c *RateController) getRates(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.GetRates(r.Context())
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *RateController) getRate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	query := r.URL.Query()
	req := models.GetRateRequest{
		FromCurrency: query.Get("fromCurrency"),
		ToCurrency:   query.Get("toCurrency"),
	}
	logRequest(r, req)

	response, err := c.service.GetRate(r.Context(), req)
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *RateController) convert(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.ConvertRequest
	if !decodeBody[models.ConvertResponse](w, r, start, &req) {
		return
	}

	response, err := c.service.Convert(r.Context(), req)
	respond(w, r, start, http.StatusOK, response, err)
}
