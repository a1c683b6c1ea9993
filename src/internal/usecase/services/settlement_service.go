package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

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

var _ service_interfaces.SettlementService = (*SettlementService)(nil)

type SettlementService struct {
	engine         *engine.Engine
	settlementRepo repo_interfaces.SettlementRepository
	broadcaster    MessageBroadcaster
}

func NewSettlementService(eng *engine.Engine, settlementRepo repo_interfaces.SettlementRepository, broadcaster MessageBroadcaster) *SettlementService {
	return &SettlementService{engine: eng, settlementRepo: settlementRepo, broadcaster: broadcaster}
}

func (s *SettlementService) CreateBatch(ctx context.Context, req models.CreateBatchRequest) (commons.Response[models.BatchResponse], error) {
	logger.Info("settlement service create batch request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("settlement service create batch validation failed", err, nil)
		return commons.ErrorResponse[models.BatchResponse]("validation failed", err.Error()), commons.Validation(err)
	}

	issuerID, _ := parseID("issuerId", req.IssuerID)
	acquirerID, _ := parseID("acquirerId", req.AcquirerID)
	txIDs := make([]uuid.UUID, 0, len(req.TransactionIDs))
	for _, raw := range req.TransactionIDs {
		id, _ := parseID("transactionIds", raw)
		txIDs = append(txIDs, id)
	}

	batchID, err := s.engine.CreateBatch(issuerID, acquirerID, txIDs)
	if err != nil {
		logger.Error("settlement service create batch failed", err, logger.Fields{
			"issuerId":   issuerID.String(),
			"acquirerId": acquirerID.String(),
			"count":      len(txIDs),
		})
		return commons.ErrorResponse[models.BatchResponse]("failed to create settlement batch", err.Error()), err
	}

	batch, err := s.engine.GetBatch(batchID)
	if err != nil {
		logger.Error("settlement service create batch lookup failed", err, logger.Fields{"batchId": batchID.String()})
		return commons.ErrorResponse[models.BatchResponse]("failed to create settlement batch", "Unable to load settlement batch right now"), err
	}
	s.record(ctx, batch, wire.SettlementRequest(batch))

	logger.Info("settlement service create batch success", logger.Fields{
		"batchId":     batch.ID.String(),
		"totalAmount": batch.TotalAmount.String(),
		"currency":    batch.Currency,
	})

	return commons.SuccessResponse("settlement batch created successfully", mapBatchToResponse(batch)), nil
}

// ProcessBatch runs a PENDING batch to completion. A fund movement failure
// leaves the batch FAILED; the FAILED snapshot is still journaled and
// broadcast before the error is returned.
func (s *SettlementService) ProcessBatch(ctx context.Context, id string) (commons.Response[models.BatchResponse], error) {
	logger.Info("settlement service process batch request", logger.Fields{"batchId": id})

	batchID, err := parseID("batchId", id)
	if err != nil {
		logger.Error("settlement service process batch validation failed", err, nil)
		return commons.ErrorResponse[models.BatchResponse]("validation failed", err.Error()), err
	}

	processErr := s.engine.ProcessSettlement(batchID)
	batch, err := s.engine.GetBatch(batchID)
	if err != nil {
		logger.Error("settlement service process batch failed", err, logger.Fields{"batchId": batchID.String()})
		return commons.ErrorResponse[models.BatchResponse]("settlement batch not found", err.Error()), err
	}

	if errors.Is(processErr, domain.ErrInvalidState) {
		logger.Error("settlement service process batch rejected", processErr, logger.Fields{
			"batchId": batchID.String(),
			"status":  string(batch.Status),
		})
		return commons.ErrorResponse[models.BatchResponse]("failed to process settlement batch", processErr.Error()), processErr
	}

	metrics.SettlementBatches.WithLabelValues(string(batch.Status)).Inc()
	s.record(ctx, batch, wire.SettlementResponse(batch))

	if processErr != nil {
		logger.Error("settlement service process batch failed", processErr, logger.Fields{
			"batchId": batchID.String(),
			"status":  string(batch.Status),
		})
		return commons.ErrorResponse[models.BatchResponse]("failed to process settlement batch", processErr.Error()), processErr
	}

	logger.Info("settlement service process batch success", logger.Fields{
		"batchId": batch.ID.String(),
		"status":  string(batch.Status),
	})

	return commons.SuccessResponse("settlement batch processed successfully", mapBatchToResponse(batch)), nil
}

func (s *SettlementService) GetBatch(ctx context.Context, id string) (commons.Response[models.BatchResponse], error) {
	logger.Info("settlement service get batch request", logger.Fields{"batchId": id})

	batchID, err := parseID("batchId", id)
	if err != nil {
		logger.Error("settlement service get batch validation failed", err, nil)
		return commons.ErrorResponse[models.BatchResponse]("validation failed", err.Error()), err
	}

	batch, err := s.engine.GetBatch(batchID)
	if err != nil && s.settlementRepo != nil && errors.Is(err, domain.ErrRecordNotFound) {
		batch, err = s.settlementRepo.Get(ctx, batchID)
	}
	if err != nil {
		logger.Error("settlement service get batch failed", err, logger.Fields{"batchId": batchID.String()})
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.BatchResponse]("settlement batch not found", err.Error()), err
		}
		return commons.ErrorResponse[models.BatchResponse]("failed to get settlement batch", err.Error()), err
	}

	return commons.SuccessResponse("settlement batch fetched successfully", mapBatchToResponse(batch)), nil
}

func (s *SettlementService) PendingBatches(ctx context.Context) (commons.Response[[]models.BatchResponse], error) {
	logger.Info("settlement service pending batches request", nil)

	batches := s.engine.PendingBatches()
	resp := make([]models.BatchResponse, 0, len(batches))
	for _, batch := range batches {
		resp = append(resp, mapBatchToResponse(batch))
	}

	logger.Info("settlement service pending batches success", logger.Fields{"count": len(resp)})

	return commons.SuccessResponse("pending settlement batches fetched successfully", resp), nil
}

func (s *SettlementService) NetSettlement(ctx context.Context, issuerID string, acquirerID string) (commons.Response[models.NetSettlementResponse], error) {
	logger.Info("settlement service net settlement request", logger.Fields{
		"issuerId":   issuerID,
		"acquirerId": acquirerID,
	})

	issuer, err := parseID("issuerId", issuerID)
	if err != nil {
		logger.Error("settlement service net settlement validation failed", err, nil)
		return commons.ErrorResponse[models.NetSettlementResponse]("validation failed", err.Error()), err
	}
	acquirer, err := parseID("acquirerId", acquirerID)
	if err != nil {
		logger.Error("settlement service net settlement validation failed", err, nil)
		return commons.ErrorResponse[models.NetSettlementResponse]("validation failed", err.Error()), err
	}

	net := s.engine.NetSettlement(issuer, acquirer)

	return commons.SuccessResponse("net settlement fetched successfully", models.NetSettlementResponse{
		IssuerID:   issuer.String(),
		AcquirerID: acquirer.String(),
		NetAmount:  net.String(),
	}), nil
}

func (s *SettlementService) record(ctx context.Context, batch domain.SettlementBatch, msg *wire.Message) {
	fields := logger.Fields{
		"batchId": batch.ID.String(),
		"status":  string(batch.Status),
	}
	if s.settlementRepo != nil {
		if err := s.settlementRepo.Save(ctx, batch); err != nil {
			logger.Error("settlement service journal failed", err, fields)
		}
	}
	broadcast(ctx, s.broadcaster, msg, fields)
}
