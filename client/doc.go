// Package client provides an asynchronous HTTP client that delivers every
// completed request to a single callback as a status code and body.
//
// # Building a Client
//
// Use [Build] to create a [Client] with functional options:
//
//	c, err := client.Build(
//		client.WithBasicAuth("jeff", "test"),
//		client.WithCallback(func(status int, body string) {
//			fmt.Println(status, body)
//		}),
//	)
//
// # Making Requests
//
// [Client.Get] and [Client.Post] return as soon as the request is sent.
// The callback runs once the response body has been read, or with status 0
// and an empty body when no response arrived. The returned [Result] can be
// used to wait for or cancel the request:
//
//	r, err := c.Get(ctx, "http://localhost:8080/index")
//	status, body := r.Wait()
//
// A Client runs one request at a time. Issuing another while the first is
// pending returns [ErrRequestInFlight]; chaining requests from inside the
// callback is allowed.
//
// # Credentials
//
// When credentials are configured every request carries an
// "Authorization: Basic" header encoded with
// [github.com/adamwoolhether/scorpion/codec]. GET requests also carry a
// volatile "timestamp" query parameter so that caches never serve a
// stale response.
package client
