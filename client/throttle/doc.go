// Package throttle provides an [http.RoundTripper] that rate-limits
// outbound requests with the token bucket from [golang.org/x/time/rate].
//
// A [client.Client] built with WithThrottle wraps its transport with
// [NewRoundTripper]:
//
//	rt, err := throttle.NewRoundTripper(
//		10, // requests per second
//		5,  // burst capacity
//		func() *slog.Logger { return slog.Default() },
//		http.DefaultTransport,
//	)
//
// When the bucket is empty a request waits for a token or for its context
// to end, whichever comes first. A client callback sees the latter as a
// status 0 completion.
package throttle
