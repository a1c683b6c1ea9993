package services

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/api-sage/card-payment-engine/src/internal/adapter/http/models"
	"github.com/api-sage/card-payment-engine/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/card-payment-engine/src/internal/commons"
	"github.com/api-sage/card-payment-engine/src/internal/domain"
	"github.com/api-sage/card-payment-engine/src/internal/engine"
	"github.com/api-sage/card-payment-engine/src/internal/logger"
	"github.com/api-sage/card-payment-engine/src/internal/metrics"
	"github.com/api-sage/card-payment-engine/src/internal/usecase/service_interfaces"
	"github.com/api-sage/card-payment-engine/src/internal/wire"
)

var _ service_interfaces.PaymentService = (*PaymentService)(nil)

// PaymentService drives the transaction lifecycle. txRepo and broadcaster
// are optional; the engine stays the source of truth either way.
type PaymentService struct {
	engine      *engine.Engine
	txRepo      repo_interfaces.TransactionRepository
	broadcaster MessageBroadcaster
}

func NewPaymentService(eng *engine.Engine, txRepo repo_interfaces.TransactionRepository, broadcaster MessageBroadcaster) *PaymentService {
	return &PaymentService{engine: eng, txRepo: txRepo, broadcaster: broadcaster}
}

func (s *PaymentService) Authorize(ctx context.Context, req models.AuthorizeRequest) (commons.Response[models.TransactionResponse], error) {
	logger.Info("payment service authorize request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("payment service authorize validation failed", err, nil)
		return commons.ErrorResponse[models.TransactionResponse]("validation failed", err.Error()), commons.Validation(err)
	}

	cardID, _ := parseID("cardId", req.CardID)
	merchantID, _ := parseID("merchantId", req.MerchantID)
	amount := decimal.RequireFromString(strings.TrimSpace(req.Amount))

	txID, err := s.engine.Authorize(cardID, merchantID, amount, req.Currency)
	metrics.Authorizations.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		logger.Error("payment service authorize declined", err, logger.Fields{
			"cardId":     cardID.String(),
			"merchantId": merchantID.String(),
		})
		return commons.ErrorResponse[models.TransactionResponse]("authorization declined", err.Error()), err
	}

	tx, err := s.engine.GetTransaction(txID)
	if err != nil {
		logger.Error("payment service authorize lookup failed", err, logger.Fields{"transactionId": txID.String()})
		return commons.ErrorResponse[models.TransactionResponse]("failed to authorize transaction", "Unable to authorize transaction right now"), err
	}
	s.record(ctx, tx)

	logger.Info("payment service authorize success", logger.Fields{
		"transactionId": tx.ID.String(),
		"amount":        tx.Amount.String(),
		"currency":      tx.Currency,
	})

	return commons.SuccessResponse("transaction authorized successfully", mapTransactionToResponse(tx)), nil
}

func (s *PaymentService) Capture(ctx context.Context, id string) (commons.Response[models.TransactionResponse], error) {
	return s.transition(ctx, "capture", id, s.engine.Capture, metrics.Captures, "transaction captured successfully")
}

func (s *PaymentService) Settle(ctx context.Context, id string) (commons.Response[models.TransactionResponse], error) {
	return s.transition(ctx, "settle", id, s.engine.Settle, metrics.Settlements, "transaction settled successfully")
}

func (s *PaymentService) transition(
	ctx context.Context,
	op string,
	id string,
	apply func(txID uuid.UUID) error,
	counter *prometheus.CounterVec,
	successMessage string,
) (commons.Response[models.TransactionResponse], error) {
	logger.Info("payment service "+op+" request", logger.Fields{"transactionId": id})

	txID, err := parseID("transactionId", id)
	if err != nil {
		logger.Error("payment service "+op+" validation failed", err, nil)
		return commons.ErrorResponse[models.TransactionResponse]("validation failed", err.Error()), err
	}

	err = apply(txID)
	counter.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		logger.Error("payment service "+op+" failed", err, logger.Fields{"transactionId": txID.String()})
		return commons.ErrorResponse[models.TransactionResponse]("failed to "+op+" transaction", err.Error()), err
	}

	tx, err := s.engine.GetTransaction(txID)
	if err != nil {
		logger.Error("payment service "+op+" lookup failed", err, logger.Fields{"transactionId": txID.String()})
		return commons.ErrorResponse[models.TransactionResponse]("failed to "+op+" transaction", "Unable to load transaction right now"), err
	}
	s.record(ctx, tx)

	logger.Info("payment service "+op+" success", logger.Fields{
		"transactionId": tx.ID.String(),
		"status":        string(tx.Status),
	})

	return commons.SuccessResponse(successMessage, mapTransactionToResponse(tx)), nil
}

// GetTransaction falls back to the journal for transactions the engine no
// longer holds, such as those recorded before a restart.
func (s *PaymentService) GetTransaction(ctx context.Context, id string) (commons.Response[models.TransactionResponse], error) {
	logger.Info("payment service get transaction request", logger.Fields{"transactionId": id})

	tx, err := s.lookup(ctx, id)
	if err != nil {
		logger.Error("payment service get transaction failed", err, logger.Fields{"transactionId": id})
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.TransactionResponse]("transaction not found", err.Error()), err
		}
		return commons.ErrorResponse[models.TransactionResponse]("failed to get transaction", err.Error()), err
	}

	return commons.SuccessResponse("transaction fetched successfully", mapTransactionToResponse(tx)), nil
}

func (s *PaymentService) ListTransactions(ctx context.Context, status string) (commons.Response[[]models.TransactionResponse], error) {
	logger.Info("payment service list transactions request", logger.Fields{"status": status})

	filter := domain.TransactionStatus(strings.ToUpper(strings.TrimSpace(status)))
	if filter != "" && !filter.Valid() {
		err := commons.Validation(fmt.Errorf("unknown transaction status %q", status))
		logger.Error("payment service list transactions validation failed", err, nil)
		return commons.ErrorResponse[[]models.TransactionResponse]("validation failed", err.Error()), err
	}

	txs := s.engine.ListTransactions(filter)
	resp := make([]models.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		resp = append(resp, mapTransactionToResponse(tx))
	}

	logger.Info("payment service list transactions success", logger.Fields{"count": len(resp)})

	return commons.SuccessResponse("transactions fetched successfully", resp), nil
}

// TransactionWire renders the network message for the transaction's current
// stage.
func (s *PaymentService) TransactionWire(ctx context.Context, id string) (commons.Response[models.WireMessageResponse], error) {
	logger.Info("payment service transaction wire request", logger.Fields{"transactionId": id})

	tx, err := s.lookup(ctx, id)
	if err != nil {
		logger.Error("payment service transaction wire failed", err, logger.Fields{"transactionId": id})
		return commons.ErrorResponse[models.WireMessageResponse]("failed to build network message", err.Error()), err
	}

	msg := wire.ForTransaction(tx)
	encoded, err := msg.Encode()
	if err != nil {
		logger.Error("payment service transaction wire encode failed", err, logger.Fields{"transactionId": id})
		return commons.ErrorResponse[models.WireMessageResponse]("failed to build network message", err.Error()), err
	}

	return commons.SuccessResponse("network message built successfully", mapWireMessageToResponse(msg, encoded)), nil
}

func (s *PaymentService) DecodeWire(ctx context.Context, req models.DecodeWireRequest) (commons.Response[models.WireMessageResponse], error) {
	logger.Info("payment service decode wire request", nil)

	if err := req.Validate(); err != nil {
		logger.Error("payment service decode wire validation failed", err, nil)
		return commons.ErrorResponse[models.WireMessageResponse]("validation failed", err.Error()), commons.Validation(err)
	}

	raw, err := hex.DecodeString(strings.TrimSpace(req.Hex))
	if err != nil {
		err = commons.Validation(fmt.Errorf("hex: %v", err))
		logger.Error("payment service decode wire validation failed", err, nil)
		return commons.ErrorResponse[models.WireMessageResponse]("validation failed", err.Error()), err
	}

	msg, err := wire.Decode(raw)
	if err != nil {
		logger.Error("payment service decode wire failed", err, logger.Fields{"length": len(raw)})
		return commons.ErrorResponse[models.WireMessageResponse]("failed to decode network message", err.Error()), err
	}

	logger.Info("payment service decode wire success", logger.Fields{
		"mti":    msg.MTI,
		"fields": len(msg.Fields()),
	})

	return commons.SuccessResponse("network message decoded successfully", mapWireMessageToResponse(msg, raw)), nil
}

func (s *PaymentService) lookup(ctx context.Context, id string) (domain.Transaction, error) {
	txID, err := parseID("transactionId", id)
	if err != nil {
		return domain.Transaction{}, err
	}

	tx, err := s.engine.GetTransaction(txID)
	if err == nil || s.txRepo == nil || !errors.Is(err, domain.ErrRecordNotFound) {
		return tx, err
	}
	return s.txRepo.Get(ctx, txID)
}

// record journals and broadcasts a committed transaction snapshot.
func (s *PaymentService) record(ctx context.Context, tx domain.Transaction) {
	fields := logger.Fields{
		"transactionId": tx.ID.String(),
		"status":        string(tx.Status),
	}
	if s.txRepo != nil {
		if err := s.txRepo.Save(ctx, tx); err != nil {
			logger.Error("payment service journal failed", err, fields)
		}
	}
	broadcast(ctx, s.broadcaster, wire.ForTransaction(tx), fields)
}
