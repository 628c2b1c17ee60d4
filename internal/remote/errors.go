package remote

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// APIError is a non-2xx answer from the remote API.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("remote api returned %d: %s", e.Status, e.Detail)
}

// Temporary reports whether the status is worth retrying for idempotent reads.
func (e *APIError) Temporary() bool {
	switch e.Status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func (e *APIError) NotFound() bool {
	return e.Status == http.StatusNotFound
}

const defaultErrorDetail = "An unexpected error occurred"

func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode, Detail: defaultErrorDetail}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil || len(raw) == 0 {
		if text := http.StatusText(resp.StatusCode); text != "" {
			apiErr.Detail = text
		}
		return apiErr
	}

	var body struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		apiErr.Detail = strings.TrimSpace(string(raw))
		return apiErr
	}
	if detail := normalizeDetail(body.Detail); detail != "" {
		apiErr.Detail = detail
	} else if body.Message != "" {
		apiErr.Detail = body.Message
	}
	return apiErr
}

// normalizeDetail flattens string details and validation error lists ([{msg: ...}]).
func normalizeDetail(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
