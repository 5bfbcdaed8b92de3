package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("invalid JSON log line %q: %v", buf.String(), err)
	}
	return m
}

func TestZerologAdapter_Fields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewZerologAdapter(zerolog.New(&buf))
	l.Info("evaluated",
		String("method", "rs"),
		Int("points", 6),
		Height(1000),
		Duration("elapsed", time.Millisecond),
	)

	m := decode(t, &buf)
	if m["message"] != "evaluated" || m["method"] != "rs" || m["points"] != float64(6) || m["t"] != float64(1000) {
		t.Errorf("unexpected log entry: %v", m)
	}
	if _, ok := m["elapsed"]; !ok {
		t.Error("duration field missing")
	}
}

func TestZerologAdapter_Error(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewLogger(&buf, "server")
	l.Error("request failed", errors.New("boom"))

	m := decode(t, &buf)
	if m["level"] != "error" || m["error"] != "boom" || m["component"] != "server" {
		t.Errorf("unexpected log entry: %v", m)
	}
}

func TestSetup(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	var buf bytes.Buffer
	logger, err := Setup("WARN", &buf)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Errorf("global level = %v, want warn", zerolog.GlobalLevel())
	}
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")
	if bytes.Contains(buf.Bytes(), []byte("hidden")) || !bytes.Contains(buf.Bytes(), []byte("shown")) {
		t.Errorf("level filtering failed: %q", buf.String())
	}

	if _, err := Setup("loud", &buf); err == nil {
		t.Error("expected an error for an unknown level")
	}
}
