package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/adamwoolhether/scorpion/web/errs"
)

// ReadBody reads the whole request body. A body larger than limit bytes
// fails with a 413 *errs.Error; limit <= 0 disables the bound.
func ReadBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	body := r.Body
	if limit > 0 {
		body = http.MaxBytesReader(w, r.Body, limit)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		if maxErr, ok := errors.AsType[*http.MaxBytesError](err); ok {
			return nil, errs.New(http.StatusRequestEntityTooLarge, fmt.Errorf("request body exceeds %d bytes", maxErr.Limit))
		}
		return nil, fmt.Errorf("read body: %w", err)
	}

	return data, nil
}
