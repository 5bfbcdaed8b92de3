// Package models defines the JSON documents exchanged by the HTTP API and
// printed by the CLI in -json mode.
package models

// ZResponse is a single evaluation of Z(t).
type ZResponse struct {
	T        float64 `json:"t"`
	Z        float64 `json:"z"`
	Theta    float64 `json:"theta"`
	Method   string  `json:"method"`
	Terms    int     `json:"terms"`
	Duration string  `json:"duration"`
	Cached   bool    `json:"cached,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// BlockResponse is the evaluation of a block of evenly spaced samples.
type BlockResponse struct {
	Start       float64   `json:"start"`
	Length      float64   `json:"length"`
	Points      int       `json:"points"`
	Method      string    `json:"method"`
	Values      []float64 `json:"values"`
	SignChanges int       `json:"sign_changes"`
	Duration    string    `json:"duration"`
}

// ThetaResponse is a value of the Riemann-Siegel theta function.
type ThetaResponse struct {
	T     float64 `json:"t"`
	Theta float64 `json:"theta"`
}

// BernoulliResponse lists B_0 .. B_{N-1}.
type BernoulliResponse struct {
	N      int       `json:"n"`
	Values []float64 `json:"values"`
}

// GramPoint is g_n, the solution of θ(g_n) = nπ.
type GramPoint struct {
	Index int     `json:"index"`
	T     float64 `json:"t"`
}

// GramResponse lists the first N Gram points.
type GramResponse struct {
	N      int         `json:"n"`
	Points []GramPoint `json:"points"`
}

// Zero is a located zero of Z.
type Zero struct {
	T          float64 `json:"t"`
	Z          float64 `json:"z"`
	GramIndex  int     `json:"gram_index"`
	Iterations int     `json:"iterations"`
}

// ZerosResponse is the result of a zero scan.
type ZerosResponse struct {
	From     float64 `json:"from"`
	To       float64 `json:"to"`
	Step     float64 `json:"step"`
	Method   string  `json:"method"`
	Samples  int     `json:"samples"`
	Zeros    []Zero  `json:"zeros"`
	Duration string  `json:"duration"`
	// Source is "scan" or "catalog".
	Source string `json:"source"`
}

// MethodInfo describes one evaluation method.
type MethodInfo struct {
	Key     string `json:"key"`
	Name    string `json:"name"`
	Default bool   `json:"default,omitempty"`
}

// MethodsResponse lists the available methods.
type MethodsResponse struct {
	Methods []MethodInfo `json:"methods"`
}

// ComparisonResponse holds the evaluation of the same height with several
// methods and their largest pairwise spread.
type ComparisonResponse struct {
	T       float64     `json:"t"`
	Results []ZResponse `json:"results"`
	Spread  float64     `json:"spread"`
	// Consistent reports whether Spread is within the tolerance.
	Consistent bool `json:"consistent"`
}

// HealthResponse is returned by /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

// ErrorResponse is the body of every API error.
type ErrorResponse struct {
	// Error is the HTTP status text.
	Error string `json:"error"`
	// Message describes what was wrong.
	Message string `json:"message,omitempty"`
}
