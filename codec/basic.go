package codec

import "strings"

// BasicScheme is the authorization scheme name for HTTP Basic Auth.
const BasicScheme = "Basic"

// BasicAuth returns the encoded "username:password" payload for an
// Authorization header.
func BasicAuth(username, password string) string {
	return EncodeString(username + ":" + password)
}

// BasicAuthHeader returns the complete Authorization header value,
// e.g. "Basic dTpw" for the pair ("u", "p").
func BasicAuthHeader(username, password string) string {
	return BasicScheme + " " + BasicAuth(username, password)
}

// ParseBasicAuth extracts the credential pair from an Authorization header
// value. The scheme match is case-insensitive and the decoded payload is
// split on its first colon, so passwords may contain colons but usernames
// may not.
func ParseBasicAuth(header string) (username, password string, ok bool) {
	scheme, payload, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, BasicScheme) {
		return "", "", false
	}

	return strings.Cut(DecodeString(payload), ":")
}
