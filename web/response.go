// Package web provides response, request, and validation helpers shared by
// the HTTP handlers.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/adamwoolhether/scorpion/web/errs"
	"github.com/adamwoolhether/scorpion/web/mux"
)

// Respond writes raw bytes with the given status code and content type.
func Respond(ctx context.Context, w http.ResponseWriter, statusCode int, contentType string, data []byte) error {
	mux.SetStatusCode(ctx, statusCode)

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(statusCode)

	if _, err := w.Write(data); err != nil {
		return err
	}

	return nil
}

// RespondJSON to an HTTP request, setting the status code and body if any.
func RespondJSON(ctx context.Context, w http.ResponseWriter, statusCode int, data any) error {
	mux.SetStatusCode(ctx, statusCode)

	if statusCode == http.StatusNoContent {
		w.WriteHeader(statusCode)
		return nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if _, err = w.Write(jsonData); err != nil {
		return err
	}

	return nil
}

// RespondError writes a structured JSON error response using the
// status code and message from the given *errs.Error. Headers attached
// to the error are copied to the response first.
func RespondError(ctx context.Context, w http.ResponseWriter, err *errs.Error) error {
	for k, v := range err.Header {
		w.Header()[k] = v
	}

	return RespondJSON(ctx, w, err.Code, err)
}
