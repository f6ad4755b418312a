// Package errs defines the errors handlers return to be rendered as
// HTTP responses.
package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"path"
	"runtime"
	"slices"
	"strings"
)

// Error is a handler error carrying the status to respond with. Header
// is copied onto the response; Func and Source locate where the error
// was raised and are only logged.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Header  http.Header `json:"-"`
	Func    string      `json:"-"`
	Source  string      `json:"-"`

	internal bool
}

// New returns an Error responding with code and err's message.
func New(code int, err error) *Error {
	return raise(code, err)
}

// NewInternal returns a 500 whose message is replaced by the status text
// before it reaches the client.
func NewInternal(err error) *Error {
	e := raise(http.StatusInternalServerError, err)
	e.internal = true

	return e
}

// NewChallenge returns a 401 asking for Basic credentials in realm.
func NewChallenge(realm string, err error) *Error {
	e := raise(http.StatusUnauthorized, err)
	e.Header = http.Header{"Www-Authenticate": {fmt.Sprintf("Basic realm=%q", realm)}}

	return e
}

// raise records the caller of the exported constructor.
func raise(code int, err error) *Error {
	e := Error{Code: code, Message: err.Error()}

	if pc, file, line, ok := runtime.Caller(2); ok {
		e.Source = fmt.Sprintf("%s:%d", path.Base(file), line)
		if fn := runtime.FuncForPC(pc); fn != nil {
			e.Func = path.Base(fn.Name())
		}
	}

	return &e
}

func (e *Error) Error() string {
	return e.Message
}

// IsInternal reports whether e's message must be hidden from clients.
func (e *Error) IsInternal() bool {
	return e.internal
}

// FieldError names an input field and why it was rejected.
type FieldError struct {
	Field string `json:"field"`
	Err   string `json:"error"`
}

// FieldErrors is a validation failure across one or more fields. It is
// rendered as a 422 with the list as body.
type FieldErrors []FieldError

// NewFieldsError returns FieldErrors holding a single field.
func NewFieldsError(field string, err error) error {
	return FieldErrors{{Field: field, Err: err.Error()}}
}

// Error renders fe as its JSON body.
func (fe FieldErrors) Error() string {
	d, err := json.Marshal(fe)
	if err != nil {
		return err.Error()
	}

	return string(d)
}

// Fields maps each field to its message. A field reported twice keeps
// the last message.
func (fe FieldErrors) Fields() map[string]string {
	m := make(map[string]string, len(fe))
	for _, f := range fe {
		m[f.Field] = f.Err
	}

	return m
}

// Lines renders fe as "field: message" lines sorted by field, for
// terminal output.
func (fe FieldErrors) Lines() string {
	fields := fe.Fields()

	var b strings.Builder
	for _, name := range slices.Sorted(maps.Keys(fields)) {
		fmt.Fprintf(&b, "%s: %s\n", name, fields[name])
	}

	return b.String()
}

// IsFieldErrors reports whether err's chain holds FieldErrors.
func IsFieldErrors(err error) bool {
	_, ok := errors.AsType[FieldErrors](err)
	return ok
}

// GetFieldErrors returns the FieldErrors in err's chain, or nil.
func GetFieldErrors(err error) FieldErrors {
	fe, _ := errors.AsType[FieldErrors](err)
	return fe
}
