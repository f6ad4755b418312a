// Package resource serves GET and POST requests for raw resources held in a
// store, gated by Basic authentication and prefix permissions.
package resource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/attribute"

	"github.com/adamwoolhether/scorpion/auth"
	"github.com/adamwoolhether/scorpion/store"
	"github.com/adamwoolhether/scorpion/web"
	"github.com/adamwoolhether/scorpion/web/errs"
	"github.com/adamwoolhether/scorpion/web/middleware"
	"github.com/adamwoolhether/scorpion/web/mux"
)

// DefaultRealm is the Basic authentication realm sent with challenges.
const DefaultRealm = "scorpion server"

// DefaultMaxBodyBytes bounds POST bodies when Config.MaxBodyBytes is zero.
const DefaultMaxBodyBytes int64 = 10 << 20

// Directory authenticates users and answers permission questions.
type Directory interface {
	middleware.Authenticator
	CanRead(user, resource string) bool
	CanWrite(user, resource string) bool
}

// Config holds the dependencies of the resource handlers.
type Config struct {
	Log          *slog.Logger
	Directory    Directory
	Store        store.Store
	Realm        string
	MaxBodyBytes int64

	// BasePath mounts the resources below a prefix. Permissions are
	// checked against the path relative to it.
	BasePath string
}

type handlers struct {
	log     *slog.Logger
	dir     Directory
	store   store.Store
	realm   string
	maxBody int64
}

// Routes registers GET and POST for every path below cfg.BasePath.
func Routes(app *mux.App, cfg Config) {
	h := handlers{
		log:     cfg.Log,
		dir:     cfg.Directory,
		store:   cfg.Store,
		realm:   cfg.Realm,
		maxBody: cfg.MaxBodyBytes,
	}
	if h.log == nil {
		h.log = slog.Default()
	}
	if h.realm == "" {
		h.realm = DefaultRealm
	}
	if h.maxBody == 0 {
		h.maxBody = DefaultMaxBodyBytes
	}

	grp := app.Group()
	if cfg.BasePath != "" && cfg.BasePath != "/" {
		grp = app.Mount(cfg.BasePath)
	}
	grp.Use(middleware.Authenticate(h.dir, h.realm))

	grp.Get("/{resource...}", h.read)
	grp.Post("/{resource...}", h.write)
}

func (h *handlers) read(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	name := "/" + r.PathValue("resource")

	if err := h.authorize(ctx, auth.Read, name); err != nil {
		return err
	}

	ctx, span := mux.AddSpan(ctx, "resource.read", attribute.String("resource", name))
	defer span.End()

	data, err := h.store.Read(name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errs.New(http.StatusNotFound, fmt.Errorf("resource[%s] not found", name))
		}
		return errs.NewInternal(err)
	}

	return web.Respond(ctx, w, http.StatusOK, http.DetectContentType(data), data)
}

func (h *handlers) write(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	name := "/" + r.PathValue("resource")

	if err := h.authorize(ctx, auth.Write, name); err != nil {
		return err
	}

	data, err := web.ReadBody(w, r, h.maxBody)
	if err != nil {
		return err
	}

	ctx, span := mux.AddSpan(ctx, "resource.write", attribute.String("resource", name), attribute.Int("bytes", len(data)))
	defer span.End()

	if err := h.store.Write(name, data); err != nil {
		return errs.NewInternal(err)
	}

	user, _ := auth.UserFrom(ctx)
	h.log.Info("resource written", "trace_id", mux.GetTraceID(ctx), "resource", name, "user", user, "bytes", len(data))

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return web.Respond(ctx, w, http.StatusOK, contentType, data)
}

// authorize lets the request through when the context user holds mode on
// name. Anonymous users are challenged for credentials; named users are
// refused.
func (h *handlers) authorize(ctx context.Context, mode auth.Mode, name string) error {
	user, _ := auth.UserFrom(ctx)

	allowed := h.dir.CanRead(user, name)
	if mode == auth.Write {
		allowed = h.dir.CanWrite(user, name)
	}
	if allowed {
		return nil
	}

	if user == auth.Anonymous {
		return errs.NewChallenge(h.realm, fmt.Errorf("authentication required for resource[%s]", name))
	}

	return errs.New(http.StatusForbidden, fmt.Errorf("user[%s] lacks %s permission on resource[%s]", user, mode, name))
}
