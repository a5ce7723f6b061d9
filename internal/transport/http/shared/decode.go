package shared

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"hrportal/internal/transport/http/api"
)

// DecodeJSON decodes the request body into dst and renders the failure itself.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any, requestID string) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", requestID)
	case errors.Is(err, io.EOF):
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "request body is empty", requestID)
	default:
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
	}
	return false
}

// ReadBody buffers the request body and leaves a fresh reader in its place.
func ReadBody(w http.ResponseWriter, r *http.Request, requestID string) ([]byte, bool) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", requestID)
		} else {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "could not read request body", requestID)
		}
		return nil, false
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))
	return raw, true
}
