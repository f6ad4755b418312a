package middleware

import (
	"context"
	"net/http"

	"github.com/adamwoolhether/scorpion/auth"
	"github.com/adamwoolhether/scorpion/web/errs"
	"github.com/adamwoolhether/scorpion/web/mux"
)

// Authenticator resolves the user named by an Authorization header value.
type Authenticator interface {
	FromHeader(header string) (string, error)
}

// Authenticate resolves the request's Basic credentials against a and
// stores the user in the context. A missing header resolves to the
// anonymous user. Bad credentials are answered with a challenge in realm.
func Authenticate(a Authenticator, realm string) mux.Middleware {
	m := func(handler mux.Handler) mux.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			user, err := a.FromHeader(r.Header.Get("Authorization"))
			if err != nil {
				return errs.NewChallenge(realm, err)
			}

			mux.SetUser(ctx, user)
			ctx = auth.WithUser(ctx, user)

			return handler(ctx, w, r.WithContext(ctx))
		}

		return h
	}

	return m
}
