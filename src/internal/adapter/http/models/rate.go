package models

type RateResponse struct {
	FromCurrency string `json:"fromCurrency"`
	ToCurrency   string `json:"toCurrency"`
	Rate         string `json:"rate"`
	RateDate     string `json:"rateDate"`
}

type GetRateRequest struct {
	FromCurrency string `json:"fromCurrency"`
	ToCurrency   string `json:"toCurrency"`
}

func (r GetRateRequest) Validate() error {
	var v validator
	v.currency("fromCurrency", r.FromCurrency)
	v.currency("toCurrency", r.ToCurrency)
	return v.err()
}

type ConvertRequest struct {
	Amount  string `json:"amount"`
	FromCcy string `json:"fromCcy"`
	ToCcy   string `json:"toCcy"`
}

func (r ConvertRequest) Validate() error {
	var v validator
	v.amount("amount", r.Amount)
	v.currency("fromCcy", r.FromCcy)
	v.currency("toCcy", r.ToCcy)
	return v.err()
}

type ConvertResponse struct {
	Amount          string `json:"amount"`
	FromCcy         string `json:"fromCcy"`
	ToCcy           string `json:"toCcy"`
	ConvertedAmount string `json:"convertedAmount"`
	RateUsed        string `json:"rateUsed"`
	Symbol          string `json:"symbol,omitempty"`
}
