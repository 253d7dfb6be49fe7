package logging

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelWarn, Format: FormatText, Output: &buf})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message", nil)

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("below-level messages logged: %q", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("at-level messages missing: %q", out)
	}
}

func TestLevelNoneSilences(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelNone, Format: FormatText, Output: &buf})

	logger.Error("should not appear", nil)

	if buf.Len() != 0 {
		t.Errorf("LevelNone produced output: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"off", LevelNone},
		{"garbage", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelDebug, Format: FormatJSON, Output: &buf})

	logger.Info("structured", Fields{"mode": "persistent"})

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry.Message != "structured" || entry.Level != "INFO" {
		t.Errorf("entry = %+v", entry)
	}
	if entry.Fields["mode"] != "persistent" {
		t.Errorf("fields = %v", entry.Fields)
	}
}

func TestRoundTripperRedactsAuthorization(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	var buf bytes.Buffer
	logger := New(Options{Level: LevelDebug, Format: FormatJSON, Output: &buf})
	client := &http.Client{
		Transport: NewLoggingRoundTripper(http.DefaultTransport, NewHTTPLogger(logger), true),
	}

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer super-secret-token")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	out := buf.String()
	if strings.Contains(out, "super-secret-token") {
		t.Error("bearer token leaked into logs")
	}
	if !strings.Contains(out, "[REDACTED]") {
		t.Errorf("expected redaction marker, got %q", out)
	}
}

func TestRoundTripperRedactsPasswordField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	var buf bytes.Buffer
	logger := New(Options{Level: LevelDebug, Format: FormatJSON, Output: &buf})
	client := &http.Client{
		Transport: NewLoggingRoundTripper(http.DefaultTransport, NewHTTPLogger(logger), true),
	}

	body := strings.NewReader(`{"userid":"u1","password":"hunter2"}`)
	req, err := http.NewRequest(http.MethodPost, server.URL, body)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	out := buf.String()
	if strings.Contains(out, "hunter2") {
		t.Error("password leaked into logs")
	}
}

func TestRoundTripperPreservesBody(t *testing.T) {
	const payload = `{"query_text":"test"}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		buf.ReadFrom(r.Body)
		if buf.String() != payload {
			t.Errorf("server saw body %q, want %q", buf.String(), payload)
		}
		w.Write([]byte(`{"answer":"yes"}`))
	}))
	defer server.Close()

	logger := New(Options{Level: LevelDebug, Format: FormatJSON, Output: &bytes.Buffer{}})
	client := &http.Client{
		Transport: NewLoggingRoundTripper(http.DefaultTransport, NewHTTPLogger(logger), true),
	}

	req, err := http.NewRequest(http.MethodPost, server.URL, strings.NewReader(payload))
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var respBuf bytes.Buffer
	respBuf.ReadFrom(resp.Body)
	if respBuf.String() != `{"answer":"yes"}` {
		t.Errorf("caller saw response %q", respBuf.String())
	}
}
