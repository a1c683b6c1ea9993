package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/api-sage/card-payment-engine/src/internal/commons"
	"github.com/api-sage/card-payment-engine/src/internal/currency"
	"github.com/api-sage/card-payment-engine/src/internal/domain"
	"github.com/api-sage/card-payment-engine/src/internal/logger"
)

const maxBodyBytes = 1 << 20

// statusFor maps service errors onto HTTP status codes. Business declines
// are 422 so clients can tell them apart from malformed requests.
func statusFor(err error) int {
	switch {
	case errors.Is(err, commons.ErrValidation),
		errors.Is(err, currency.ErrUnsupportedCurrency),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidPAN),
		errors.Is(err, domain.ErrInvalidCVV),
		errors.Is(err, domain.ErrInvalidExpiry),
		errors.Is(err, domain.ErrEmptyBatch),
		errors.Is(err, domain.ErrMixedCurrency),
		errors.Is(err, domain.ErrTruncatedMessage),
		errors.Is(err, domain.ErrInvalidFieldLength),
		errors.Is(err, domain.ErrInvalidEncoding),
		errors.Is(err, domain.ErrInvalidFieldNumber),
		errors.Is(err, domain.ErrDuplicateField):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrAlreadyBatched):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrCardExpired),
		errors.Is(err, domain.ErrCardInactive),
		errors.Is(err, domain.ErrMerchantInactive),
		errors.Is(err, domain.ErrAccountInactive),
		errors.Is(err, domain.ErrFraudFlagged):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respond writes the outcome of a service call and logs the exchange.
func respond[T any](w http.ResponseWriter, r *http.Request, start time.Time, okStatus int, response commons.Response[T], err error) {
	status := okStatus
	if err != nil {
		status = statusFor(err)
		logError(r, err, logger.Fields{"message": response.Message, "status": status})
	}
	writeJSON(w, status, response)
	logResponse(r, status, response, start)
}

// decodeBody reads a JSON request body into req. On failure it has already
// written the 400 response.
func decodeBody[T any, R any](w http.ResponseWriter, r *http.Request, start time.Time, req *R) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[T]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return false
	}
	logRequest(r, *req)
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
