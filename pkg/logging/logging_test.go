package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"
)

func captureJSON(t *testing.T, level slog.Level, f func()) []map[string]any {
	t.Helper()
	var buf bytes.Buffer
	Init(level, FormatJSON, &buf)
	defer Init(slog.LevelInfo, FormatText, os.Stderr)

	f()

	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("bad json line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("json"); err != nil || f != FormatJSON {
		t.Errorf("json: %v %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Errorf("expected error for xml")
	}
}

func TestLevelFiltering(t *testing.T) {
	lines := captureJSON(t, slog.LevelWarn, func() {
		Info("hidden")
		Warn("shown", "k", 1)
	})
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0]["msg"] != "shown" {
		t.Errorf("msg = %v", lines[0]["msg"])
	}
	ts, _ := lines[0]["time"].(string)
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Errorf("time %q not RFC3339: %v", ts, err)
	}
}

func TestSessionContext(t *testing.T) {
	ctx := WithSession(context.Background(), "abc")
	if SessionID(ctx) != "abc" {
		t.Fatalf("session id lost")
	}
	lines := captureJSON(t, slog.LevelDebug, func() {
		WebSocketEvent(ctx, "connected")
		HTTPRequest("GET", "/healthz", "127.0.0.1", 200, 3*time.Millisecond)
	})
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0]["session_id"] != "abc" || lines[0]["event"] != "connected" {
		t.Errorf("websocket line = %v", lines[0])
	}
	if lines[1]["path"] != "/healthz" {
		t.Errorf("http line = %v", lines[1])
	}
}

func TestMiddlewareLogsStatusAndSession(t *testing.T) {
	var seen string
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	logs := captureJSON(t, slog.LevelInfo, func() {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set("X-Request-ID", "req-1")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Header().Get("X-Request-ID") != "req-1" {
			t.Errorf("request id not echoed")
		}
	})

	if seen != "req-1" {
		t.Errorf("session id in handler = %q", seen)
	}
	if len(logs) != 1 {
		t.Fatalf("expected 1 log line, got %d", len(logs))
	}
	if logs[0]["msg"] != "http_request" || logs[0]["status_code"] != float64(http.StatusTeapot) {
		t.Errorf("unexpected log %v", logs[0])
	}
}
