package logging

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxLoggedBody caps how much of a request/response body is logged.
// Uploaded documents can be large and their bytes are not useful in logs.
const maxLoggedBody = 10000

// HTTPLogger provides request/response logging for HTTP clients
type HTTPLogger struct {
	logger *Logger
}

// NewHTTPLogger creates a new HTTP logger
func NewHTTPLogger(logger *Logger) *HTTPLogger {
	return &HTTPLogger{logger: logger}
}

// LogRequest logs an HTTP request
func (h *HTTPLogger) LogRequest(req *http.Request, body []byte) {
	fields := Fields{
		"method": req.Method,
		"url":    req.URL.String(),
	}

	headers := make(map[string]string)
	for k, v := range req.Header {
		if isSensitiveHeader(k) {
			headers[k] = "[REDACTED]"
		} else if len(v) > 0 {
			headers[k] = v[0]
		}
	}
	fields["headers"] = headers

	if len(body) > 0 {
		fields["body"] = bodyField(body)
		fields["body_size"] = len(body)
	}

	h.logger.Debug("HTTP Request", fields)
}

// LogResponse logs an HTTP response
func (h *HTTPLogger) LogResponse(resp *http.Response, body []byte, duration time.Duration) {
	fields := Fields{
		"status":      resp.StatusCode,
		"status_text": resp.Status,
		"duration_ms": duration.Milliseconds(),
	}

	if len(body) > 0 {
		fields["body"] = bodyField(body)
		fields["body_size"] = len(body)
	}

	h.logger.Debug("HTTP Response", fields)
}

// LogError logs an HTTP transport error
func (h *HTTPLogger) LogError(err error, req *http.Request) {
	h.logger.Error("HTTP Error", err, Fields{
		"method": req.Method,
		"url":    req.URL.String(),
	})
}

// RoundTripperWrapper wraps an http.RoundTripper with logging
type RoundTripperWrapper struct {
	wrapped http.RoundTripper
	logger  *HTTPLogger
	logBody bool
}

// NewLoggingRoundTripper creates a new logging round tripper
func NewLoggingRoundTripper(wrapped http.RoundTripper, logger *HTTPLogger, logBody bool) *RoundTripperWrapper {
	if wrapped == nil {
		wrapped = http.DefaultTransport
	}
	return &RoundTripperWrapper{
		wrapped: wrapped,
		logger:  logger,
		logBody: logBody,
	}
}

// RoundTrip implements http.RoundTripper
func (rt *RoundTripperWrapper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	var reqBody []byte
	if rt.logBody && req.Body != nil {
		reqBody, _ = io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewBuffer(reqBody))
	}
	rt.logger.LogRequest(req, reqBody)

	resp, err := rt.wrapped.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		rt.logger.LogError(err, req)
		return nil, err
	}

	var respBody []byte
	if rt.logBody {
		respBody, _ = io.ReadAll(resp.Body)
		resp.Body = io.NopCloser(bytes.NewBuffer(respBody))
	}
	rt.logger.LogResponse(resp, respBody, duration)

	return resp, nil
}

// bodyField renders a body for logging: parsed (and redacted) JSON when
// valid, truncated raw text otherwise.
func bodyField(body []byte) interface{} {
	if json.Valid(body) {
		var parsed interface{}
		if err := json.Unmarshal(body, &parsed); err == nil {
			return redactSensitiveFields(parsed)
		}
	}
	return truncateBody(body, maxLoggedBody)
}

// isSensitiveHeader checks if a header should be redacted
func isSensitiveHeader(name string) bool {
	sensitive := []string{
		"authorization",
		"x-auth-token",
		"cookie",
		"set-cookie",
	}
	nameLower := strings.ToLower(name)
	for _, s := range sensitive {
		if nameLower == s {
			return true
		}
	}
	return false
}

// truncateBody truncates body if too large
func truncateBody(body []byte, maxSize int) string {
	if len(body) <= maxSize {
		return string(body)
	}
	return string(body[:maxSize]) + "...[truncated]"
}

// redactSensitiveFields redacts credential-bearing fields in parsed JSON
func redactSensitiveFields(data interface{}) interface{} {
	sensitiveKeys := []string{"password", "secret", "token", "authorization"}

	switch v := data.(type) {
	case map[string]interface{}:
		result := make(map[string]interface{})
		for k, val := range v {
			keyLower := strings.ToLower(k)
			isSensitive := false
			for _, sensitive := range sensitiveKeys {
				if strings.Contains(keyLower, sensitive) {
					isSensitive = true
					break
				}
			}
			if isSensitive {
				result[k] = "[REDACTED]"
			} else {
				result[k] = redactSensitiveFields(val)
			}
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = redactSensitiveFields(item)
		}
		return result
	default:
		return data
	}
}
