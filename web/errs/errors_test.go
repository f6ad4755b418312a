package errs_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/adamwoolhether/scorpion/web/errs"
)

func TestNew(t *testing.T) {
	err := errs.New(http.StatusForbidden, fmt.Errorf("user[doug] may not read /jeff"))

	if err.Code != http.StatusForbidden {
		t.Fatalf("Code = %d, want %d", err.Code, http.StatusForbidden)
	}
	if err.Message != "user[doug] may not read /jeff" {
		t.Fatalf("Message = %q", err.Message)
	}
	if err.Func != "errs_test.TestNew" {
		t.Fatalf("Func = %q, want %q", err.Func, "errs_test.TestNew")
	}
	if !strings.HasPrefix(err.Source, "errors_test.go:") {
		t.Fatalf("Source = %q, want errors_test.go:<line>", err.Source)
	}
	if err.IsInternal() {
		t.Fatal("New must not be internal")
	}
	if err.Header != nil {
		t.Fatalf("Header = %v, want nil", err.Header)
	}
}

func TestNewInternal(t *testing.T) {
	err := errs.NewInternal(fmt.Errorf("store failure"))

	if err.Code != http.StatusInternalServerError {
		t.Fatalf("Code = %d, want %d", err.Code, http.StatusInternalServerError)
	}
	if !err.IsInternal() {
		t.Fatal("NewInternal must be internal")
	}
	if !strings.HasPrefix(err.Source, "errors_test.go:") {
		t.Fatalf("Source = %q, want errors_test.go:<line>", err.Source)
	}
}

func TestNewChallenge(t *testing.T) {
	err := errs.NewChallenge("scorpion server", fmt.Errorf("authentication required"))

	if err.Code != http.StatusUnauthorized {
		t.Fatalf("Code = %d, want %d", err.Code, http.StatusUnauthorized)
	}
	if got := err.Header.Get("WWW-Authenticate"); got != `Basic realm="scorpion server"` {
		t.Fatalf("WWW-Authenticate = %q, want %q", got, `Basic realm="scorpion server"`)
	}
	if err.IsInternal() {
		t.Fatal("challenge must not be internal")
	}
}

func TestError_JSON(t *testing.T) {
	err := errs.NewChallenge("realm", fmt.Errorf("invalid"))

	data, jsonErr := json.Marshal(err)
	if jsonErr != nil {
		t.Fatalf("json.Marshal: %v", jsonErr)
	}

	var m map[string]any
	if jsonErr := json.Unmarshal(data, &m); jsonErr != nil {
		t.Fatalf("json.Unmarshal: %v", jsonErr)
	}

	if m["code"].(float64) != float64(http.StatusUnauthorized) {
		t.Fatalf("JSON code = %v, want %d", m["code"], http.StatusUnauthorized)
	}
	if m["message"] != "invalid" {
		t.Fatalf("JSON message = %v, want %q", m["message"], "invalid")
	}
	if len(m) != 2 {
		t.Fatalf("JSON keys = %v, want only code and message", m)
	}
}

func TestError_AsType(t *testing.T) {
	inner := errs.New(http.StatusNotFound, fmt.Errorf("resource /missing not found"))
	wrapped := fmt.Errorf("wrapping: %w", inner)

	target, ok := errors.AsType[*errs.Error](wrapped)
	if !ok {
		t.Fatal("errors.AsType should find *errs.Error through wrapping")
	}
	if target.Code != http.StatusNotFound {
		t.Fatalf("Code = %d, want %d", target.Code, http.StatusNotFound)
	}
}

func TestFieldErrors(t *testing.T) {
	fe := errs.NewFieldsError("store.path", fmt.Errorf("required"))
	wrapped := fmt.Errorf("config: %w", fe)

	if !errs.IsFieldErrors(wrapped) {
		t.Fatal("IsFieldErrors should see through wrapping")
	}
	if errs.IsFieldErrors(fmt.Errorf("plain")) {
		t.Fatal("IsFieldErrors should be false for a plain error")
	}

	got := errs.GetFieldErrors(wrapped)
	if got == nil {
		t.Fatal("GetFieldErrors returned nil")
	}
	if got.Fields()["store.path"] != "required" {
		t.Fatalf("Fields() = %v", got.Fields())
	}
	if errs.GetFieldErrors(fmt.Errorf("plain")) != nil {
		t.Fatal("GetFieldErrors should return nil for non-FieldErrors")
	}

	var arr []map[string]string
	if err := json.Unmarshal([]byte(fe.Error()), &arr); err != nil {
		t.Fatalf("Error() should produce valid JSON: %v", err)
	}
	if len(arr) != 1 || arr[0]["field"] != "store.path" {
		t.Fatalf("Error() = %s", fe.Error())
	}
}

func TestFieldErrors_Lines(t *testing.T) {
	fe := errs.FieldErrors{
		{Field: "storage_path", Err: "storage_path is a required field"},
		{Field: "host", Err: "host is a required field"},
	}

	want := "host: host is a required field\nstorage_path: storage_path is a required field\n"
	if got := fe.Lines(); got != want {
		t.Fatalf("Lines() = %q, want %q", got, want)
	}
}
