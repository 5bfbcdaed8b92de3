package orchestration

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/agbru/hardyz/internal/config"
	apperrors "github.com/agbru/hardyz/internal/errors"
	"github.com/agbru/hardyz/internal/testutil"
	"github.com/agbru/hardyz/internal/zeta"
	"github.com/agbru/hardyz/internal/zeta/mocks"
)

// TestExecuteEvaluations verifies that every calculator receives the
// configured block and that results keep the calculator order.
func TestExecuteEvaluations(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	cfg := config.AppConfig{Start: 10, Length: 2, Points: 3}
	want := cfg.Block()

	good := mocks.NewMockCalculator(ctrl)
	good.EXPECT().Name().Return("Good").AnyTimes()
	good.EXPECT().Method().Return(zeta.RiemannSiegel).AnyTimes()
	good.EXPECT().EvaluateBlock(gomock.Any(), gomock.Any(), 0, want).
		DoAndReturn(func(_ context.Context, ch chan<- zeta.ProgressUpdate, idx int, b zeta.Block) ([]float64, error) {
			ch <- zeta.ProgressUpdate{CalculatorIndex: idx, Value: 1}
			return []float64{1, 2, 3}, nil
		})

	bad := mocks.NewMockCalculator(ctrl)
	bad.EXPECT().Name().Return("Bad").AnyTimes()
	bad.EXPECT().Method().Return(zeta.EulerMaclaurin).AnyTimes()
	bad.EXPECT().EvaluateBlock(gomock.Any(), gomock.Any(), 1, want).Return(nil, errors.New("mock error"))

	results := ExecuteEvaluations(context.Background(), []zeta.Calculator{good, bad}, cfg, io.Discard)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Name != "Good" || results[0].Err != nil || len(results[0].Values) != 3 {
		t.Errorf("unexpected first result %+v", results[0])
	}
	if results[0].Method != zeta.RiemannSiegel {
		t.Errorf("method = %v", results[0].Method)
	}
	if results[1].Name != "Bad" || results[1].Err == nil {
		t.Errorf("unexpected second result %+v", results[1])
	}
}

// TestExecuteEvaluations_SinglePoint checks that a config without -points
// evaluates the 1-point block at -t.
func TestExecuteEvaluations_SinglePoint(t *testing.T) {
	t.Parallel()
	calc := &zeta.MockCalculator{Fn: func(_ context.Context, b zeta.Block) ([]float64, error) {
		if b != zeta.Point(42) {
			return nil, errors.New("unexpected block")
		}
		return []float64{0.5}, nil
	}}
	results := ExecuteEvaluations(context.Background(), []zeta.Calculator{calc}, config.AppConfig{T: 42}, io.Discard)
	if results[0].Err != nil || results[0].Values[0] != 0.5 {
		t.Errorf("unexpected result %+v", results[0])
	}
}

func TestSpread(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		results []EvaluationResult
		want    float64
	}{
		{"empty", nil, 0},
		{"single", []EvaluationResult{{Values: []float64{1}}}, 0},
		{"pairwise max", []EvaluationResult{
			{Values: []float64{1, 5}},
			{Values: []float64{1.5, 4}},
			{Values: []float64{0.75, 4.5}},
		}, 1},
		{"failures ignored", []EvaluationResult{
			{Values: []float64{1}},
			{Err: errors.New("x")},
			{Values: []float64{1.25}},
		}, 0.25},
		{"length mismatch", []EvaluationResult{
			{Values: []float64{1}},
			{Values: []float64{1, 2}},
		}, math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Spread(tt.results); got != tt.want {
				t.Errorf("Spread() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestAnalyzeComparisonResults verifies the exit code for consistent,
// inconsistent and failed runs.
func TestAnalyzeComparisonResults(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name           string
		results        []EvaluationResult
		expectedStatus int
	}{
		{
			name: "All success",
			results: []EvaluationResult{
				{Name: "A", Values: []float64{5}, Duration: time.Millisecond},
				{Name: "B", Values: []float64{5.1}, Duration: time.Millisecond},
			},
			expectedStatus: apperrors.ExitSuccess,
		},
		{
			name: "Mismatch",
			results: []EvaluationResult{
				{Name: "A", Values: []float64{5}, Duration: time.Millisecond},
				{Name: "B", Values: []float64{6}, Duration: time.Millisecond},
			},
			expectedStatus: apperrors.ExitErrorMismatch,
		},
		{
			name: "All failure",
			results: []EvaluationResult{
				{Name: "A", Duration: time.Millisecond, Err: errors.New("fail")},
				{Name: "B", Duration: time.Millisecond, Err: errors.New("fail")},
			},
			expectedStatus: apperrors.ExitErrorGeneric,
		},
		{
			name: "All timed out",
			results: []EvaluationResult{
				{Name: "A", Err: context.DeadlineExceeded},
			},
			expectedStatus: apperrors.ExitErrorTimeout,
		},
		{
			name: "Mixed success/failure",
			results: []EvaluationResult{
				{Name: "A", Values: []float64{5}, Duration: time.Millisecond},
				{Name: "B", Duration: time.Millisecond, Err: errors.New("fail")},
			},
			expectedStatus: apperrors.ExitSuccess,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := config.AppConfig{T: 100, Tolerance: 0.5}
			status := AnalyzeComparisonResults(tt.results, cfg, io.Discard)
			if status != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, status)
			}
		})
	}
}

func TestAnalyzeComparisonResults_Output(t *testing.T) {
	t.Parallel()
	results := []EvaluationResult{
		{Name: "Slow", Method: zeta.EulerMaclaurin, Values: []float64{1, -1}, Duration: 2 * time.Millisecond},
		{Name: "Fast", Method: zeta.RiemannSiegel, Values: []float64{1.01, -1}, Duration: time.Millisecond},
	}
	var buf bytes.Buffer
	cfg := config.AppConfig{Start: 10, Length: 1, Points: 2, Tolerance: 0.5}
	if code := AnalyzeComparisonResults(results, cfg, &buf); code != apperrors.ExitSuccess {
		t.Fatalf("exit code %d", code)
	}
	out := testutil.StripAnsiCodes(buf.String())
	if strings.Index(out, "Fast") > strings.Index(out, "Slow") {
		t.Errorf("results should be sorted by duration:\n%s", out)
	}
	missing := testutil.MissingLines(out,
		"--- Comparison Summary ---",
		"Global Status: Success.",
		"Block [10, 11], 2 points, Riemann-Siegel",
	)
	if len(missing) > 0 {
		t.Errorf("missing %q in:\n%s", missing, out)
	}
}

func TestBest(t *testing.T) {
	t.Parallel()
	results := []EvaluationResult{
		{Name: "A", Duration: 3},
		{Name: "B", Duration: 1, Err: errors.New("x")},
		{Name: "C", Duration: 2},
	}
	if b := Best(results); b == nil || b.Name != "C" {
		t.Errorf("Best() = %+v, want C", b)
	}
	if Best([]EvaluationResult{{Err: errors.New("x")}}) != nil {
		t.Error("Best() should be nil when everything failed")
	}
}
