package rest

import (
	"time"

	"yqhp/calc-engine/pkg/engine"
)

// ErrorResponse represents an error response. Position is the byte offset of the
// failure in the submitted expression, when known.
type ErrorResponse struct {
	Error    string `json:"error"`
	Message  string `json:"message"`
	Position *int   `json:"position,omitempty"`
	Output   string `json:"output,omitempty"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// ExpressionRequest is the body of the differentiate, symbolic and calculate endpoints.
type ExpressionRequest struct {
	Expression string `json:"expression"`
}

// EvaluateRequest overrides the engine defaults for one evaluation.
type EvaluateRequest struct {
	Expression     string `json:"expression"`
	PreferFraction *bool  `json:"prefer_fraction,omitempty"`
	AngleUnit      string `json:"angle_unit,omitempty"`
}

// IntegrateRequest asks for a definite integral when both bounds are set.
type IntegrateRequest struct {
	Expression string   `json:"expression"`
	From       *float64 `json:"from,omitempty"`
	To         *float64 `json:"to,omitempty"`
}

// ResultResponse represents a successful engine call.
type ResultResponse struct {
	ID        string  `json:"id"`
	Operation string  `json:"operation"`
	Mode      string  `json:"mode"`
	Input     string  `json:"input"`
	Output    string  `json:"output"`
	ValueKind string  `json:"value_kind,omitempty"`
	ElapsedMS float64 `json:"elapsed_ms"`
}

// MetricsResponse holds the per-operation statistics.
type MetricsResponse struct {
	Metrics map[string]map[string]float64 `json:"metrics"`
}

func toResultResponse(res engine.Result) ResultResponse {
	resp := ResultResponse{
		ID:        res.ID,
		Operation: res.Operation,
		Mode:      string(res.Mode),
		Input:     res.Input,
		Output:    res.Output,
		ElapsedMS: float64(res.Elapsed) / float64(time.Millisecond),
	}
	if res.Value != nil {
		resp.ValueKind = res.Value.Kind().String()
	}
	return resp
}
