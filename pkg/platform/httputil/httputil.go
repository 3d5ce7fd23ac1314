// Package httputil centralizes JSON encoding and error mapping for HTTP
// handlers so transport concerns stay out of domain services.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	domainerrors "compass/pkg/domain-errors"
)

// errorBody is the wire shape for all error responses.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// WriteJSON encodes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// WriteError maps a domain error to an HTTP status and JSON body. Internal
// error messages are not leaked to clients.
func WriteError(w http.ResponseWriter, err error) {
	code := domainerrors.CodeOf(err)
	status := domainerrors.ToHTTPStatus(code)

	var body errorBody
	body.Error.Code = string(code)
	if code == domainerrors.CodeInternal {
		body.Error.Message = "internal error"
	} else {
		var de *domainerrors.Error
		if errors.As(err, &de) {
			body.Error.Message = de.Message
		} else {
			body.Error.Message = err.Error()
		}
	}

	WriteJSON(w, status, body)
}

// Decode parses the request body into T, returning a bad-request error on
// malformed JSON or unknown fields.
func Decode[T any](r *http.Request) (T, error) {
	var v T
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, domainerrors.Wrap(err, domainerrors.CodeBadRequest, "invalid JSON body")
	}
	return v, nil
}
