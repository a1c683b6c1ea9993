package models

type RegisterMerchantRequest struct {
	Name       string `json:"name"`
	Category   string `json:"category"`
	AcquirerID string `json:"acquirerId"`
}

func (r RegisterMerchantRequest) Validate() error {
	var v validator
	v.required("name", r.Name)
	v.required("category", r.Category)
	v.id("acquirerId", r.AcquirerID)
	return v.err()
}

type MerchantResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	AcquirerID   string `json:"acquirerId"`
	Status       string `json:"status"`
	RegisteredAt string `json:"registeredAt"`
}
