// Package auth holds the user directory of a resource server: username and
// password pairs plus read and write grants on resource prefixes.
//
// The anonymous user is the empty string. A request without an
// Authorization header acts as the anonymous user, and every named user
// inherits whatever the anonymous user may do.
//
// Directories are populated programmatically with [Directory.AddUser] and
// [Directory.Grant], or loaded from tab-separated files:
//
//	users:        jeff<TAB>test
//	permissions:  w<TAB>jeff<TAB>/jeff
//	              r<TAB><TAB>/index
//
// or from a single YAML document via [Directory.LoadYAML].
package auth
