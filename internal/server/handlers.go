package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/agbru/hardyz/internal/cli"
	"github.com/agbru/hardyz/internal/logging"
	"github.com/agbru/hardyz/internal/scan"
	"github.com/agbru/hardyz/internal/service"
	"github.com/agbru/hardyz/internal/zeta"
	"github.com/agbru/hardyz/pkg/models"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !s.requireGet(w, r) {
		return
	}
	s.writeJSONResponse(w, http.StatusOK, models.HealthResponse{Status: "healthy", Timestamp: time.Now().Unix()})
}

// handleMethods lists the registered methods with their display names.
func (s *Server) handleMethods(w http.ResponseWriter, r *http.Request) {
	if !s.requireGet(w, r) {
		return
	}
	resp := models.MethodsResponse{Methods: []models.MethodInfo{}}
	for _, key := range s.factory.List() {
		info := models.MethodInfo{Key: key, Name: key}
		if m, err := zeta.ParseMethod(key); err == nil {
			info.Name = m.String()
			info.Default = m == zeta.DefaultMethod
		}
		resp.Methods = append(resp.Methods, info)
	}
	s.writeJSONResponse(w, http.StatusOK, resp)
}

// handleZ evaluates Z(t): GET /z?t=<height>&method=<key>.
func (s *Server) handleZ(w http.ResponseWriter, r *http.Request) {
	if !s.requireGet(w, r) {
		return
	}
	t, err := parseFloatParam(r, "t", true)
	if err != nil {
		s.writeError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
	defer cancel()

	ev, err := s.service.Evaluate(ctx, r.URL.Query().Get("method"), t)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := cli.NewZResponse(ev.T, ev.Z, ev.Method, ev.Duration)
	resp.Cached = ev.Cached
	s.writeJSONResponse(w, http.StatusOK, resp)
}

// handleBlock evaluates Z on evenly spaced samples:
// GET /block?start=&length=&points=&method=.
func (s *Server) handleBlock(w http.ResponseWriter, r *http.Request) {
	if !s.requireGet(w, r) {
		return
	}
	start, err := parseFloatParam(r, "start", true)
	if err != nil {
		s.writeError(w, err)
		return
	}
	length, err := parseFloatParam(r, "length", false)
	if err != nil {
		s.writeError(w, err)
		return
	}
	points, err := parseIntParam(r, "points", 1, s.securityConfig.MaxPoints)
	if err != nil {
		s.writeError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
	defer cancel()

	b := zeta.Block{Start: start, Length: length, Points: points}
	begin := time.Now()
	values, m, err := s.service.EvaluateBlock(ctx, r.URL.Query().Get("method"), b)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSONResponse(w, http.StatusOK, cli.NewBlockResponse(b, values, m, time.Since(begin)))
}

// handleTheta returns θ(t): GET /theta?t=.
func (s *Server) handleTheta(w http.ResponseWriter, r *http.Request) {
	if !s.requireGet(w, r) {
		return
	}
	t, err := parseFloatParam(r, "t", true)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if limit := s.securityConfig.MaxT; limit > 0 && math.Abs(t) > limit {
		s.writeError(w, fmt.Errorf("%w: |t| above %g", service.ErrLimitExceeded, limit))
		return
	}
	s.writeJSONResponse(w, http.StatusOK, models.ThetaResponse{T: t, Theta: zeta.Theta(t)})
}

// handleBernoulli returns B_0 .. B_{n-1}: GET /bernoulli?n=.
func (s *Server) handleBernoulli(w http.ResponseWriter, r *http.Request) {
	if !s.requireGet(w, r) {
		return
	}
	n, err := parseIntParam(r, "n", 1, s.securityConfig.MaxBernoulli)
	if err != nil {
		s.writeError(w, err)
		return
	}
	values := zeta.SharedBernoulli[float64]().Values(n - 1)
	s.writeJSONResponse(w, http.StatusOK, models.BernoulliResponse{N: n, Values: values})
}

// handleGram returns g_0 .. g_{n-1}: GET /gram?n=.
func (s *Server) handleGram(w http.ResponseWriter, r *http.Request) {
	if !s.requireGet(w, r) {
		return
	}
	n, err := parseIntParam(r, "n", 1, s.securityConfig.MaxGram)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := models.GramResponse{N: n, Points: make([]models.GramPoint, n)}
	for i := range n {
		g, err := zeta.GramPoint(i)
		if err != nil {
			s.writeError(w, err)
			return
		}
		resp.Points[i] = models.GramPoint{Index: i, T: g}
	}
	s.writeJSONResponse(w, http.StatusOK, resp)
}

// handleZeros scans for zeros, or reads the catalog with source=catalog:
// GET /zeros?from=&to=&step=&method=&source=.
func (s *Server) handleZeros(w http.ResponseWriter, r *http.Request) {
	if !s.requireGet(w, r) {
		return
	}
	from, err := parseFloatParam(r, "from", true)
	if err != nil {
		s.writeError(w, err)
		return
	}
	to, err := parseFloatParam(r, "to", true)
	if err != nil {
		s.writeError(w, err)
		return
	}
	step, err := parseFloatParam(r, "step", false)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if step < 0 {
		s.writeError(w, ParseError{Message: "Invalid 'step' parameter: must be positive", StatusCode: http.StatusBadRequest})
		return
	}
	if to <= from {
		s.writeError(w, ParseError{Message: "'to' must be greater than 'from'", StatusCode: http.StatusBadRequest})
		return
	}
	method := r.URL.Query().Get("method")

	ctx, cancel := context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
	defer cancel()

	switch source := r.URL.Query().Get("source"); source {
	case "", "scan":
		res, err := s.service.Zeros(ctx, method, from, to, step)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSONResponse(w, http.StatusOK, cli.NewZerosResponse(res, step, "scan"))
	case "catalog":
		begin := time.Now()
		zeros, err := s.service.CatalogZeros(ctx, method, from, to)
		if err != nil {
			s.writeError(w, err)
			return
		}
		resp := models.ZerosResponse{
			From: from, To: to, Step: step, Method: method,
			Zeros: make([]models.Zero, len(zeros)), Duration: time.Since(begin).String(), Source: "catalog",
		}
		if resp.Method == "" {
			resp.Method = zeta.DefaultMethod.Key()
		}
		for i, z := range zeros {
			resp.Zeros[i] = models.Zero{T: z.T, Z: z.Z, GramIndex: z.GramIndex, Iterations: z.Iterations}
		}
		s.writeJSONResponse(w, http.StatusOK, resp)
	default:
		s.writeError(w, ParseError{Message: fmt.Sprintf("Invalid 'source' parameter %q: use scan or catalog", source), StatusCode: http.StatusBadRequest})
	}
}

func (s *Server) requireGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return false
	}
	return true
}

// parseFloatParam reads a finite float query parameter. A missing optional
// parameter is 0.
func parseFloatParam(r *http.Request, name string, required bool) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		if required {
			return 0, ParseError{Message: fmt.Sprintf("Missing '%s' parameter", name), StatusCode: http.StatusBadRequest}
		}
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ParseError{Message: fmt.Sprintf("Invalid '%s' parameter: must be a finite number", name), StatusCode: http.StatusBadRequest}
	}
	return v, nil
}

// parseIntParam reads a required integer in [lo, hi]. hi <= 0 means no upper
// bound.
func parseIntParam(r *http.Request, name string, lo, hi int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, ParseError{Message: fmt.Sprintf("Missing '%s' parameter", name), StatusCode: http.StatusBadRequest}
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo {
		return 0, ParseError{Message: fmt.Sprintf("Invalid '%s' parameter: must be an integer >= %d", name, lo), StatusCode: http.StatusBadRequest}
	}
	if hi > 0 && v > hi {
		return 0, ParseError{
			Message:    fmt.Sprintf("Value of '%s' exceeds maximum allowed (%d). This limit prevents resource exhaustion.", name, hi),
			StatusCode: http.StatusBadRequest,
		}
	}
	return v, nil
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	var parseErr ParseError
	var unknown *zeta.UnknownCalculatorError
	switch {
	case errors.As(err, &parseErr):
		return parseErr.StatusCode
	case errors.Is(err, service.ErrLimitExceeded),
		errors.Is(err, zeta.ErrUnknownMethod),
		errors.Is(err, zeta.ErrInvalidHeight),
		errors.Is(err, zeta.ErrInvalidPoints),
		errors.Is(err, scan.ErrInvalidOptions),
		errors.As(err, &unknown):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNoCatalog):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed", err, logging.Int("status", code))
	}
	s.writeErrorResponse(w, code, err.Error())
}

func (s *Server) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", err)
	}
}

func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	s.writeJSONResponse(w, statusCode, models.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}
