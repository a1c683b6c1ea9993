package models

type AuthorizeRequest struct {
	CardID     string `json:"cardId"`
	MerchantID string `json:"merchantId"`
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
}

func (r AuthorizeRequest) Validate() error {
	var v validator
	v.id("cardId", r.CardID)
	v.id("merchantId", r.MerchantID)
	v.amount("amount", r.Amount)
	v.currency("currency", r.Currency)
	return v.err()
}

type TransactionResponse struct {
	ID          string `json:"id"`
	CardID      string `json:"cardId"`
	MerchantID  string `json:"merchantId"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt"`
	ProcessedAt string `json:"processedAt,omitempty"`
}
