package orderstore

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// APIError is a non-success response from the order store. Detail is
// the store's human-readable message, surfaced to the operator verbatim
// when present.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed (status %d)", e.StatusCode)
}

// maxErrorBody caps how much of a failure payload gets read.
const maxErrorBody = 64 << 10

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return apiErr
	}

	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Detail != "" {
		apiErr.Detail = payload.Detail
	}
	return apiErr
}
