// Package classification validates image-analysis responses at the boundary
// before they enter the core. The remote call itself happens in the web
// layer; only strictly-typed results cross into report handling.
package classification

import (
	"encoding/json"
	"strings"
)

type ResultKind string

const (
	ResultSuccess     ResultKind = "success"
	ResultMalformed   ResultKind = "malformed"
	ResultUnavailable ResultKind = "unavailable"
)

// Result is the typed outcome of a classification attempt.
type Result struct {
	Kind       ResultKind `json:"kind"`
	WasteType  string     `json:"waste_type,omitempty"`
	Quantity   string     `json:"quantity,omitempty"`
	Confidence float64    `json:"confidence,omitempty"`
}

type payload struct {
	WasteType  string  `json:"wasteType"`
	Quantity   string  `json:"quantity"`
	Confidence float64 `json:"confidence"`
}

// Parse turns a raw classifier response into a Result. Empty input means the
// service never answered; anything that fails strict decoding or field
// validation is Malformed rather than a partially-trusted success.
func Parse(raw []byte) Result {
	if len(raw) == 0 {
		return Result{Kind: ResultUnavailable}
	}

	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.DisallowUnknownFields()

	var p payload
	if err := dec.Decode(&p); err != nil {
		return Result{Kind: ResultMalformed}
	}
	if strings.TrimSpace(p.WasteType) == "" || strings.TrimSpace(p.Quantity) == "" {
		return Result{Kind: ResultMalformed}
	}
	if p.Confidence < 0 || p.Confidence > 1 {
		return Result{Kind: ResultMalformed}
	}

	return Result{
		Kind:       ResultSuccess,
		WasteType:  strings.TrimSpace(p.WasteType),
		Quantity:   strings.TrimSpace(p.Quantity),
		Confidence: p.Confidence,
	}
}
