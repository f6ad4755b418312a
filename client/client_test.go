package client_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/adamwoolhether/scorpion/client"
	"github.com/adamwoolhether/scorpion/client/throttle"
)

type completion struct {
	Status int
	Body   string
}

// recorder collects every callback invocation.
type recorder struct {
	mu    sync.Mutex
	calls []completion
}

func (r *recorder) callback(status int, body string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, completion{Status: status, Body: body})
}

func (r *recorder) get() []completion {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]completion(nil), r.calls...)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func wait(t *testing.T, r *client.Result) (int, string) {
	t.Helper()

	select {
	case <-r.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("request did not complete")
	}

	return r.Wait()
}

func TestBuild_OptionValidation(t *testing.T) {
	tests := map[string]client.Option{
		"nil client":           client.WithClient(nil),
		"nil transport":        client.WithTransport(nil),
		"negative timeout":     client.WithTimeout(-1),
		"zero rps":             client.WithThrottle(0, 1),
		"zero burst":           client.WithThrottle(1, 0),
		"nil tracer":           client.WithTracer(nil),
		"empty cache param":    client.WithCacheBuster("", func() string { return "x" }),
		"nil cache func":       client.WithCacheBuster("ts", nil),
		"empty content type":   client.WithContentType(""),
		"zero max body size":   client.WithMaxBodySize(0),
		"negative body size":   client.WithMaxBodySize(-10),
	}

	for name, opt := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := client.Build(opt); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestBuild_ThrottleErrorIsWrapped(t *testing.T) {
	_, err := client.Build(client.WithThrottle(-1, 5))
	if !errors.Is(err, throttle.ErrMustNotBeZero) {
		t.Fatalf("exp ErrMustNotBeZero, got: %v", err)
	}
}

func TestClient_Get_CredentialHeader(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, "hello")
	}))
	defer ts.Close()

	var rec recorder
	c, err := client.Build(
		client.WithBasicAuth("u", "p"),
		client.WithCallback(rec.callback),
	)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	r, err := c.Get(t.Context(), ts.URL+"/resource")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	wait(t, r)

	if gotAuth != "Basic dTpw" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Basic dTpw")
	}

	exp := []completion{{Status: http.StatusOK, Body: "hello"}}
	if diff := cmp.Diff(exp, rec.get()); diff != "" {
		t.Errorf("callbacks mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_NoCredentials(t *testing.T) {
	var hasAuth bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
	}))
	defer ts.Close()

	c, err := client.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	r, err := c.Get(t.Context(), ts.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	wait(t, r)

	if hasAuth {
		t.Error("unexpected Authorization header on GET")
	}

	r, err = c.Post(t.Context(), ts.URL, "data")
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	wait(t, r)

	if hasAuth {
		t.Error("unexpected Authorization header on POST")
	}
}

func TestClient_EmptyCredentialsArePresent(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer ts.Close()

	c, err := client.Build(client.WithBasicAuth("", ""))
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	r, err := c.Get(t.Context(), ts.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	wait(t, r)

	if gotAuth != "Basic Og==" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Basic Og==")
	}
}

func TestClient_Get_CacheBuster(t *testing.T) {
	var mu sync.Mutex
	var queries []url.Values
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		queries = append(queries, r.URL.Query())
		mu.Unlock()
	}))
	defer ts.Close()

	c, err := client.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	for range 3 {
		r, err := c.Get(t.Context(), ts.URL+"/res?keep=me")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		wait(t, r)
	}

	seen := make(map[string]bool)
	for i, q := range queries {
		if q.Get("keep") != "me" {
			t.Errorf("request %d: existing query dropped: %v", i, q)
		}

		ts := q.Get(client.DefaultCacheParam)
		if ts == "" {
			t.Fatalf("request %d: missing %q param", i, client.DefaultCacheParam)
		}
		if seen[ts] {
			t.Errorf("request %d: cache buster %q repeated", i, ts)
		}
		seen[ts] = true
	}
}

func TestClient_Get_CustomCacheBuster(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.RawQuery
	}))
	defer ts.Close()

	c, err := client.Build(client.WithCacheBuster("nocache", func() string { return "42" }))
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	r, err := c.Get(t.Context(), ts.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	wait(t, r)

	if got != "nocache=42" {
		t.Errorf("query = %q, want %q", got, "nocache=42")
	}
}

func TestClient_Get_QueryPreserved(t *testing.T) {
	tests := map[string]struct {
		query string
		want  string
	}{
		"none":            {query: "", want: "nocache=42"},
		"semicolon pairs": {query: "?a=1;b=2", want: "a=1;b=2&nocache=42"},
		"bare flag":       {query: "?flag", want: "flag&nocache=42"},
		"unsorted":        {query: "?z=1&a=2", want: "z=1&a=2&nocache=42"},
		"escaped value":   {query: "?q=a%20b", want: "q=a%20b&nocache=42"},
		"trailing amp":    {query: "?a=1&", want: "a=1&nocache=42"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			var got string
			rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
				got = r.URL.RawQuery
				return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Request: r}, nil
			})

			c, err := client.Build(
				client.WithTransport(rt),
				client.WithCacheBuster("nocache", func() string { return "42" }),
			)
			if err != nil {
				t.Fatalf("build: %v", err)
			}

			r, err := c.Get(t.Context(), "http://scorpion.test/res"+tc.query)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			wait(t, r)

			if got != tc.want {
				t.Errorf("query = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestClient_SetCredentials(t *testing.T) {
	var mu sync.Mutex
	var headers []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		headers = append(headers, r.Header.Get("Authorization"))
	}))
	defer ts.Close()

	c, err := client.Build(client.WithBasicAuth("jeff", "test"))
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	steps := []func(){
		func() {},
		func() { c.SetCredentials("doug", "secret") },
		func() { c.ClearCredentials() },
		func() { c.SetCredentials("", "") },
	}
	for _, step := range steps {
		step()

		r, err := c.Get(t.Context(), ts.URL)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		wait(t, r)
	}

	// jeff:test, doug:secret, none, ":".
	exp := []string{"Basic amVmZjp0ZXN0", "Basic ZG91ZzpzZWNyZXQ=", "", "Basic Og=="}
	if diff := cmp.Diff(exp, headers); diff != "" {
		t.Errorf("Authorization mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_SetCredentials_WhileInFlight(t *testing.T) {
	release := make(chan struct{})
	var mu sync.Mutex
	var headers []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		headers = append(headers, r.Header.Get("Authorization"))
		n := len(headers)
		mu.Unlock()
		if n == 1 {
			<-release
		}
	}))
	defer ts.Close()

	c, err := client.Build(client.WithBasicAuth("jeff", "test"))
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	r, err := c.Get(t.Context(), ts.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	c.SetCredentials("doug", "secret")
	close(release)
	wait(t, r)

	r, err = c.Post(t.Context(), ts.URL, "data")
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	wait(t, r)

	exp := []string{"Basic amVmZjp0ZXN0", "Basic ZG91ZzpzZWNyZXQ="}
	if diff := cmp.Diff(exp, headers); diff != "" {
		t.Errorf("Authorization mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_Post(t *testing.T) {
	type captured struct {
		Method      string
		Query       string
		Body        string
		ContentType string
		Auth        string
	}

	var got captured
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got = captured{
			Method:      r.Method,
			Query:       r.URL.RawQuery,
			Body:        string(b),
			ContentType: r.Header.Get("Content-Type"),
			Auth:        r.Header.Get("Authorization"),
		}
		w.Write(b)
	}))
	defer ts.Close()

	var rec recorder
	c, err := client.Build(
		client.WithBasicAuth("jeff", "test"),
		client.WithCallback(rec.callback),
	)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	r, err := c.Post(t.Context(), ts.URL+"/jeff/notes", "This is a test")
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	status, body := wait(t, r)

	exp := captured{
		Method:      http.MethodPost,
		Query:       "",
		Body:        "This is a test",
		ContentType: client.DefaultContentType,
		Auth:        "Basic amVmZjp0ZXN0",
	}
	if diff := cmp.Diff(exp, got); diff != "" {
		t.Errorf("request mismatch (-want +got):\n%s", diff)
	}

	if status != http.StatusOK || body != "This is a test" {
		t.Errorf("result = (%d, %q), want (200, %q)", status, body, "This is a test")
	}
	if len(rec.get()) != 1 {
		t.Errorf("callback calls = %d, want 1", len(rec.get()))
	}
}

func TestClient_Post_ContentType(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Content-Type")
	}))
	defer ts.Close()

	c, err := client.Build(client.WithContentType("application/json"))
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	r, err := c.Post(t.Context(), ts.URL, `{"a":1}`)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	wait(t, r)

	if got != "application/json" {
		t.Errorf("Content-Type = %q, want %q", got, "application/json")
	}
}

func TestClient_SetCallback_BeforeRequest(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer ts.Close()

	var oldRec, newRec recorder
	c, err := client.Build(client.WithCallback(oldRec.callback))
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	c.SetCallback(newRec.callback)
	c.SetCallback(newRec.callback)

	r, err := c.Get(t.Context(), ts.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	wait(t, r)

	if n := len(oldRec.get()); n != 0 {
		t.Errorf("old callback calls = %d, want 0", n)
	}
	if n := len(newRec.get()); n != 1 {
		t.Errorf("new callback calls = %d, want 1", n)
	}
}

func TestClient_SetCallback_WhileInFlight(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer ts.Close()

	var oldRec, newRec recorder
	c, err := client.Build(client.WithCallback(oldRec.callback))
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	r, err := c.Get(t.Context(), ts.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	c.SetCallback(newRec.callback)
	close(release)
	wait(t, r)

	if n := len(oldRec.get()); n != 0 {
		t.Errorf("old callback calls = %d, want 0", n)
	}
	if n := len(newRec.get()); n != 1 {
		t.Errorf("new callback calls = %d, want 1", n)
	}
}

func TestClient_ExactlyOncePerRequest(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, r.Method)
	}))
	defer ts.Close()

	var rec recorder
	c, err := client.Build(client.WithCallback(rec.callback))
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	for range 5 {
		r, err := c.Get(t.Context(), ts.URL)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		wait(t, r)

		r, err = c.Post(t.Context(), ts.URL, "x")
		if err != nil {
			t.Fatalf("post: %v", err)
		}
		wait(t, r)
	}

	calls := rec.get()
	if len(calls) != 10 {
		t.Fatalf("callback calls = %d, want 10", len(calls))
	}
	for i, call := range calls {
		exp := http.MethodGet
		if i%2 == 1 {
			exp = http.MethodPost
		}
		if call.Body != exp {
			t.Errorf("call %d body = %q, want %q", i, call.Body, exp)
		}
	}
}

func TestClient_RequestInFlight(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()

	c, err := client.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	r, err := c.Get(t.Context(), ts.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if _, err := c.Get(t.Context(), ts.URL); !errors.Is(err, client.ErrRequestInFlight) {
		t.Errorf("second get: exp ErrRequestInFlight, got: %v", err)
	}
	if _, err := c.Post(t.Context(), ts.URL, "x"); !errors.Is(err, client.ErrRequestInFlight) {
		t.Errorf("post: exp ErrRequestInFlight, got: %v", err)
	}

	close(release)
	wait(t, r)

	r, err = c.Get(t.Context(), ts.URL)
	if err != nil {
		t.Fatalf("get after completion: %v", err)
	}
	wait(t, r)
}

func TestClient_ClientsDoNotShareState(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/slow" {
			<-release
		}
		io.WriteString(w, r.URL.Path)
	}))
	defer ts.Close()

	var recA, recB recorder
	a, err := client.Build(client.WithCallback(recA.callback))
	if err != nil {
		t.Fatalf("build a: %v", err)
	}
	b, err := client.Build(client.WithCallback(recB.callback))
	if err != nil {
		t.Fatalf("build b: %v", err)
	}

	ra, err := a.Get(t.Context(), ts.URL+"/slow")
	if err != nil {
		t.Fatalf("get a: %v", err)
	}

	rb, err := b.Get(t.Context(), ts.URL+"/fast")
	if err != nil {
		t.Fatalf("get b while a is in flight: %v", err)
	}
	wait(t, rb)

	close(release)
	wait(t, ra)

	if diff := cmp.Diff([]completion{{Status: 200, Body: "/slow"}}, recA.get()); diff != "" {
		t.Errorf("client a (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]completion{{Status: 200, Body: "/fast"}}, recB.get()); diff != "" {
		t.Errorf("client b (-want +got):\n%s", diff)
	}
}

func TestClient_HTTPErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer ts.Close()

	var rec recorder
	c, err := client.Build(client.WithCallback(rec.callback))
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	r, err := c.Get(t.Context(), ts.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	wait(t, r)

	if err := r.Err(); err != nil {
		t.Errorf("HTTP error status must not be an error, got: %v", err)
	}

	exp := []completion{{Status: http.StatusNotFound, Body: "nope\n"}}
	if diff := cmp.Diff(exp, rec.get()); diff != "" {
		t.Errorf("callbacks mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_TransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := ts.URL
	ts.Close()

	var rec recorder
	c, err := client.Build(
		client.WithCallback(rec.callback),
		client.WithLogger(quietLogger()),
	)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	r, err := c.Get(t.Context(), addr)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	wait(t, r)

	if r.Err() == nil {
		t.Error("expected transport error on result")
	}

	exp := []completion{{Status: 0, Body: ""}}
	if diff := cmp.Diff(exp, rec.get()); diff != "" {
		t.Errorf("callbacks mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_InvalidURL(t *testing.T) {
	c, err := client.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if _, err := c.Get(t.Context(), "http://[::1"); err == nil {
		t.Error("expected error for unparsable GET url")
	}
	if _, err := c.Post(t.Context(), "http://[::1", "x"); err == nil {
		t.Error("expected error for unparsable POST url")
	}

	// A rejected request must not occupy the in-flight slot.
	if _, err := c.Get(t.Context(), "http://[::1"); errors.Is(err, client.ErrRequestInFlight) {
		t.Error("invalid url left a request in flight")
	}
}

func TestClient_Cancel(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer ts.Close()

	var rec recorder
	c, err := client.Build(
		client.WithCallback(rec.callback),
		client.WithLogger(quietLogger()),
	)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	r, err := c.Get(t.Context(), ts.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	r.Cancel()
	wait(t, r)

	if !errors.Is(r.Err(), context.Canceled) {
		t.Errorf("exp context.Canceled, got: %v", r.Err())
	}
	if diff := cmp.Diff([]completion{{Status: 0, Body: ""}}, rec.get()); diff != "" {
		t.Errorf("callbacks mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_WithTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()

	var rec recorder
	c, err := client.Build(
		client.WithTimeout(20*time.Millisecond),
		client.WithCallback(rec.callback),
		client.WithLogger(quietLogger()),
	)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	r, err := c.Get(t.Context(), ts.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if status, _ := wait(t, r); status != 0 {
		t.Errorf("status = %d, want 0 on timeout", status)
	}
}

func TestClient_CallbackPanic(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer ts.Close()

	c, err := client.Build(
		client.WithCallback(func(int, string) { panic("boom") }),
		client.WithLogger(quietLogger()),
	)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	r, err := c.Get(t.Context(), ts.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if status, _ := wait(t, r); status != http.StatusOK {
		t.Errorf("status = %d, want 200", status)
	}

	// The slot is free again after a panicking callback.
	r, err = c.Get(t.Context(), ts.URL)
	if err != nil {
		t.Fatalf("get after panic: %v", err)
	}
	wait(t, r)
}

func TestClient_CallbackIssuesNextRequest(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, r.URL.Path)
	}))
	defer ts.Close()

	c, err := client.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	next := make(chan *client.Result, 1)
	c.SetCallback(func(status int, body string) {
		if body != "/first" {
			return
		}
		r, err := c.Post(context.Background(), ts.URL+"/second", "")
		if err != nil {
			t.Errorf("post from callback: %v", err)
			close(next)
			return
		}
		next <- r
	})

	r, err := c.Get(t.Context(), ts.URL+"/first")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	wait(t, r)

	second, ok := <-next
	if !ok {
		t.FailNow()
	}
	if _, body := wait(t, second); body != "/second" {
		t.Errorf("second body = %q, want %q", body, "/second")
	}
}

func TestClient_WithMaxBodySize(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, strings.Repeat("a", 100))
	}))
	defer ts.Close()

	c, err := client.Build(client.WithMaxBodySize(10))
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	r, err := c.Get(t.Context(), ts.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if _, body := wait(t, r); body != strings.Repeat("a", 10) {
		t.Errorf("body = %q, want 10 bytes", body)
	}
}

func TestClient_WithNoFollowRedirects(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/old" {
			http.Redirect(w, r, "/new", http.StatusFound)
			return
		}
		io.WriteString(w, "new")
	}))
	defer ts.Close()

	follow, err := client.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	r, err := follow.Get(t.Context(), ts.URL+"/old")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if status, body := wait(t, r); status != http.StatusOK || body != "new" {
		t.Errorf("following client got (%d, %q), want (200, %q)", status, body, "new")
	}

	noFollow, err := client.Build(client.WithNoFollowRedirects())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	r, err = noFollow.Get(t.Context(), ts.URL+"/old")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if status, _ := wait(t, r); status != http.StatusFound {
		t.Errorf("status = %d, want %d", status, http.StatusFound)
	}
}

func TestClient_TransportChain(t *testing.T) {
	expectedUA := "scorpion-test/1.0"

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != expectedUA {
			t.Errorf("User-Agent = %q, want %q", ua, expectedUA)
		}
		if auth := r.Header.Get("Authorization"); auth != "Basic dTpw" {
			t.Errorf("Authorization = %q, want %q", auth, "Basic dTpw")
		}
	}))
	defer ts.Close()

	var called bool
	custom := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		called = true
		return http.DefaultTransport.RoundTrip(r)
	})

	// Option order must not matter.
	orders := [][]client.Option{
		{client.WithTransport(custom), client.WithUserAgent(expectedUA), client.WithThrottle(100, 10), client.WithBasicAuth("u", "p")},
		{client.WithBasicAuth("u", "p"), client.WithThrottle(100, 10), client.WithTransport(custom), client.WithUserAgent(expectedUA)},
	}

	for i, opts := range orders {
		called = false

		c, err := client.Build(opts...)
		if err != nil {
			t.Fatalf("order %d: build: %v", i, err)
		}

		r, err := c.Get(t.Context(), ts.URL)
		if err != nil {
			t.Fatalf("order %d: get: %v", i, err)
		}
		if status, _ := wait(t, r); status != http.StatusOK {
			t.Errorf("order %d: status = %d, want 200", i, status)
		}
		if !called {
			t.Errorf("order %d: custom transport was not called", i)
		}
	}
}

func TestClient_WithClient(t *testing.T) {
	custom := &http.Client{Timeout: 42 * time.Second}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer ts.Close()

	c, err := client.Build(client.WithClient(custom))
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	r, err := c.Get(t.Context(), ts.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	wait(t, r)

	if custom.Timeout != 42*time.Second {
		t.Errorf("expected provided client timeout preserved as 42s, got %v", custom.Timeout)
	}
}

func TestClient_NoGoroutineLeak(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	}))

	tr := &http.Transport{}
	c, err := client.Build(client.WithTransport(tr))
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	for range 3 {
		r, err := c.Get(context.Background(), ts.URL)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		wait(t, r)
	}

	tr.CloseIdleConnections()
	ts.Close()
}
