package models

type RegisterCardRequest struct {
	AccountID      string `json:"accountId"`
	PAN            string `json:"pan"`
	ExpiryMonth    int    `json:"expiryMonth"`
	ExpiryYear     int    `json:"expiryYear"`
	CVV            string `json:"cvv"`
	CardholderName string `json:"cardholderName"`
}

func (r RegisterCardRequest) Validate() error {
	var v validator
	v.id("accountId", r.AccountID)
	v.required("pan", r.PAN)
	v.required("cvv", r.CVV)
	v.required("cardholderName", r.CardholderName)
	if r.ExpiryMonth < 1 || r.ExpiryMonth > 12 {
		v.add("expiryMonth must be between 1 and 12")
	}
	if r.ExpiryYear < 2000 {
		v.add("expiryYear must be a four digit year")
	}
	return v.err()
}

type VerifyCVVRequest struct {
	CVV string `json:"cvv"`
}

func (r VerifyCVVRequest) Validate() error {
	var v validator
	v.required("cvv", r.CVV)
	return v.err()
}

type VerifyCVVResponse struct {
	CardID string `json:"cardId"`
	Valid  bool   `json:"valid"`
}

type CardResponse struct {
	ID             string `json:"id"`
	AccountID      string `json:"accountId"`
	MaskedPAN      string `json:"maskedPan"`
	ExpiryMonth    int    `json:"expiryMonth"`
	ExpiryYear     int    `json:"expiryYear"`
	CardholderName string `json:"cardholderName"`
	Status         string `json:"status"`
	IssuedAt       string `json:"issuedAt"`
}
