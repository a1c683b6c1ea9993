package models

import "strconv"

type CreateBatchRequest struct {
	IssuerID       string   `json:"issuerId"`
	AcquirerID     string   `json:"acquirerId"`
	TransactionIDs []string `json:"transactionIds"`
}

func (r CreateBatchRequest) Validate() error {
	var v validator
	v.id("issuerId", r.IssuerID)
	v.id("acquirerId", r.AcquirerID)
	if len(r.TransactionIDs) == 0 {
		v.add("transactionIds is required")
	}
	for i, id := range r.TransactionIDs {
		v.id("transactionIds["+strconv.Itoa(i)+"]", id)
	}
	return v.err()
}

type BatchResponse struct {
	ID             string   `json:"id"`
	IssuerID       string   `json:"issuerId"`
	AcquirerID     string   `json:"acquirerId"`
	TransactionIDs []string `json:"transactionIds"`
	TotalAmount    string   `json:"totalAmount"`
	Currency       string   `json:"currency"`
	Status         string   `json:"status"`
	FailureReason  string   `json:"failureReason,omitempty"`
	CreatedAt      string   `json:"createdAt"`
	SettledAt      string   `json:"settledAt,omitempty"`
}

type NetSettlementResponse struct {
	IssuerID   string `json:"issuerId"`
	AcquirerID string `json:"acquirerId"`
	NetAmount  string `json:"netAmount"`
}
