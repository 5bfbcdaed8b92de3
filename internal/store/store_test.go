package store

import (
	"bytes"
	"context"
	"errors"
	"math"
	"sort"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/rs/zerolog"

	"github.com/agbru/hardyz/internal/scan"
)

func openTest(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(InMemoryConfig())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCatalog_PutRange(t *testing.T) {
	t.Parallel()

	c := openTest(t)
	ctx := context.Background()
	zeros := []scan.Zero{
		{T: 21.022039638771555, Method: "em"},
		{T: 14.134725141734693, Method: "em"},
		{T: 25.010857580145688, Method: "em"},
	}
	if err := c.Put(ctx, "em", zeros); err != nil {
		t.Fatal(err)
	}
	if err := c.Put(ctx, "rs", []scan.Zero{{T: 1000.5, Method: "rs"}}); err != nil {
		t.Fatal(err)
	}

	got, err := c.Range(ctx, "em", 14, 22)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].T != 14.134725141734693 || got[1].T != 21.022039638771555 {
		t.Errorf("Range(em, 14, 22) = %+v", got)
	}

	if n, _ := c.Count(ctx, "em"); n != 3 {
		t.Errorf("Count(em) = %d, want 3", n)
	}
	if n, _ := c.Count(ctx, "rs"); n != 1 {
		t.Errorf("Count(rs) = %d, want 1", n)
	}
	if n, _ := c.Count(ctx, "os"); n != 0 {
		t.Errorf("Count(os) = %d, want 0", n)
	}
}

func TestCatalog_PutReplacesSameHeight(t *testing.T) {
	t.Parallel()

	c := openTest(t)
	ctx := context.Background()
	_ = c.Put(ctx, "em", []scan.Zero{{T: 30, Iterations: 1}})
	_ = c.Put(ctx, "em", []scan.Zero{{T: 30, Iterations: 2}})

	got, err := c.Range(ctx, "em", 0, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Iterations != 2 {
		t.Errorf("Range = %+v, want the second write only", got)
	}
}

func TestCatalog_Closed(t *testing.T) {
	t.Parallel()

	c, err := Open(InMemoryConfig())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close = %v", err)
	}
	if err := c.Put(context.Background(), "em", nil); !errors.Is(err, ErrClosed) {
		t.Errorf("Put after Close = %v", err)
	}
	if _, err := c.Range(context.Background(), "em", 0, 1); !errors.Is(err, ErrClosed) {
		t.Errorf("Range after Close = %v", err)
	}
}

func TestCatalog_Persistent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var logs bytes.Buffer
	logger := zerolog.New(&logs)
	cfg := DefaultConfig(dir)
	cfg.Logger = &logger

	c, err := Open(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Put(context.Background(), "os", []scan.Zero{{T: 1001.25, Method: "os"}}); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	got, err := reopened.Range(context.Background(), "os", 1000, 1002)
	if err != nil || len(got) != 1 || got[0].T != 1001.25 {
		t.Errorf("after reopen Range = %+v, %v", got, err)
	}

	if _, err := Open(Config{}); err == nil {
		t.Error("Open without a path succeeded")
	}
}

func TestHeightKey_OrderPreserving(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("byte order matches numeric order", prop.ForAll(
		func(a, b float64) bool {
			ka, kb := heightKey("em", a), heightKey("em", b)
			switch {
			case a < b:
				return bytes.Compare(ka, kb) < 0
			case a > b:
				return bytes.Compare(ka, kb) > 0
			default:
				return bytes.Equal(ka, kb) || (a == 0 && b == 0)
			}
		},
		gen.Float64Range(-1e6, 1e6),
		gen.Float64Range(-1e6, 1e6),
	))

	properties.TestingRun(t)

	values := []float64{-math.MaxFloat64, -1, -1e-300, 0, 1e-300, 1, 14.13, math.MaxFloat64}
	keys := make([]string, len(values))
	for i, v := range values {
		keys[i] = string(heightKey("rs", v))
	}
	if !sort.StringsAreSorted(keys) {
		t.Error("encoded keys are not sorted for increasing heights")
	}
}
