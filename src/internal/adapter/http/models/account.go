package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

type OpenAccountRequest struct {
	HolderName     string `json:"holderName"`
	Currency       string `json:"currency"`
	InitialDeposit string `json:"initialDeposit,omitempty"`
}

func (r OpenAccountRequest) Validate() error {
	var v validator
	v.required("holderName", r.HolderName)
	v.currency("currency", r.Currency)

	if deposit := strings.TrimSpace(r.InitialDeposit); deposit != "" {
		parsed, err := decimal.NewFromString(deposit)
		if err != nil {
			v.add("initialDeposit must be numeric")
		} else if parsed.IsNegative() {
			v.add("initialDeposit cannot be negative")
		}
	}

	return v.err()
}

type CreditAccountRequest struct {
	Amount string `json:"amount"`
}

func (r CreditAccountRequest) Validate() error {
	var v validator
	v.amount("amount", r.Amount)
	return v.err()
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func (r UpdateStatusRequest) Validate() error {
	var v validator
	v.required("status", r.Status)
	return v.err()
}

type AccountResponse struct {
	ID         string `json:"id"`
	HolderName string `json:"holderName"`
	Balance    string `json:"balance"`
	Currency   string `json:"currency"`
	Status     string `json:"status"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}
