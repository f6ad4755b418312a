// Package scorpion exposes the client builder for talking to a scorpion
// resource server.
package scorpion

import (
	"github.com/adamwoolhether/scorpion/client"
)

// NewClient instantiates a new *Client with the provided options.
// If not specified, a fresh http.Client over http.DefaultTransport is used
// and no credentials are sent.
func NewClient(opts ...client.Option) (*client.Client, error) {
	return client.Build(opts...)
}
