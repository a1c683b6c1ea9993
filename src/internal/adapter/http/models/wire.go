package models

type DecodeWireRequest struct {
	Hex string `json:"hex"`
}

func (r DecodeWireRequest) Validate() error {
	var v validator
	v.required("hex", r.Hex)
	return v.err()
}

type WireField struct {
	Number int    `json:"number"`
	Value  string `json:"value"`
}

type WireMessageResponse struct {
	MTI    string      `json:"mti"`
	Bitmap string      `json:"bitmap"`
	Fields []WireField `json:"fields"`
	Hex    string      `json:"hex"`
}
