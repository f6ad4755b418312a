package auth

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/adamwoolhether/scorpion/codec"
)

// Anonymous is the user of requests that carry no credentials.
const Anonymous = ""

var (
	ErrBadCredentials = errors.New("bad credentials")
	ErrInvalidMode    = errors.New("invalid permission mode")
)

// Mode is the kind of access a grant allows.
type Mode string

const (
	Read  Mode = "r"
	Write Mode = "w"
)

// ParseMode validates s as a permission mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case Read, Write:
		return m, nil
	default:
		return "", fmt.Errorf("mode[%s]: %w", s, ErrInvalidMode)
	}
}

// Directory is a concurrency-safe set of users and their grants.
type Directory struct {
	mu          sync.RWMutex
	credentials map[string]string
	grants      map[Mode]map[string][]string
}

// New returns an empty Directory. With no grants every check is denied.
func New() *Directory {
	return &Directory{
		credentials: make(map[string]string),
		grants:      make(map[Mode]map[string][]string),
	}
}

// AddUser registers or replaces username's password.
func (d *Directory) AddUser(username, password string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.credentials[username] = password
}

// Grant allows user to access every resource whose path starts with prefix.
// Matching is a plain string prefix, so "/jeff" also covers "/jeffrey".
func (d *Directory) Grant(mode Mode, user, prefix string) error {
	if _, err := ParseMode(string(mode)); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.grants[mode] == nil {
		d.grants[mode] = make(map[string][]string)
	}
	d.grants[mode][user] = append(d.grants[mode][user], prefix)

	return nil
}

// Password returns the stored password for username.
func (d *Directory) Password(username string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	p, ok := d.credentials[username]
	return p, ok
}

// Prefixes returns a copy of the grants of the given mode, keyed by user.
func (d *Directory) Prefixes(mode Mode) map[string][]string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[string][]string, len(d.grants[mode]))
	for user, prefixes := range d.grants[mode] {
		out[user] = append([]string(nil), prefixes...)
	}

	return out
}

// Authenticate returns username when password matches the stored one.
func (d *Directory) Authenticate(username, password string) (string, error) {
	stored, ok := d.Password(username)
	if !ok || stored != password {
		return "", fmt.Errorf("user[%s]: %w", username, ErrBadCredentials)
	}

	return username, nil
}

// FromHeader resolves the user of an Authorization header value. An empty
// header is the anonymous user. Anything else must be a Basic header with
// a known username and matching password.
func (d *Directory) FromHeader(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return Anonymous, nil
	}

	username, password, ok := codec.ParseBasicAuth(header)
	if !ok {
		return "", fmt.Errorf("malformed authorization header: %w", ErrBadCredentials)
	}

	return d.Authenticate(username, password)
}

// CanWrite reports whether user may write resource. Named users fall back
// to the anonymous user's grants.
func (d *Directory) CanWrite(user, resource string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.allowed(Write, user, resource)
}

// CanRead reports whether user may read resource. Write access implies
// read access.
func (d *Directory) CanRead(user, resource string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.allowed(Write, user, resource) || d.allowed(Read, user, resource)
}

func (d *Directory) allowed(mode Mode, user, resource string) bool {
	for _, prefix := range d.grants[mode][user] {
		if strings.HasPrefix(resource, prefix) {
			return true
		}
	}

	if user != Anonymous {
		return d.allowed(mode, Anonymous, resource)
	}

	return false
}
