package route

import (
	"net/http"
	"strings"

	"github.com/agentstation/apodserver/pkg/errors"
)

// Group registers handlers under a fixed path prefix. Every sub-path is
// concatenated onto the prefix before it reaches the Router.
//
// Registration errors are collected rather than returned from each verb
// method so that a module's Init reads as a flat list of endpoints; Err
// reports them once Init is done.
type Group struct {
	prefix string
	router *Router
	errs   []error
}

// NewGroup creates a group for prefix. The prefix must be non-empty and
// begin with '/', and router must not be nil.
func NewGroup(prefix string, router *Router) (*Group, error) {
	if prefix == "" {
		return nil, errors.NewConfigurationError("route", "path prefix is required", nil)
	}
	if prefix[0] != '/' {
		return nil, errors.NewConfigurationError("route", "path prefix "+prefix+" must begin with '/'", nil)
	}
	if router == nil {
		return nil, errors.NewConfigurationError("route", "router is required for "+prefix, nil)
	}

	return &Group{
		prefix: strings.TrimSuffix(prefix, "/"),
		router: router,
	}, nil
}

// Prefix returns the path prefix without a trailing slash.
func (g *Group) Prefix() string {
	return g.prefix
}

// Handle registers handler for method at prefix+path.
func (g *Group) Handle(method, path string, handler HandlerFunc) {
	full := g.prefix + path
	if full == "" {
		full = "/"
	}
	if err := g.router.handle(method, full, g.prefix, handler); err != nil {
		g.errs = append(g.errs, err)
	}
}

// GET registers a GET handler.
func (g *Group) GET(path string, handler HandlerFunc) { g.Handle(http.MethodGet, path, handler) }

// POST registers a POST handler.
func (g *Group) POST(path string, handler HandlerFunc) { g.Handle(http.MethodPost, path, handler) }

// PUT registers a PUT handler.
func (g *Group) PUT(path string, handler HandlerFunc) { g.Handle(http.MethodPut, path, handler) }

// PATCH registers a PATCH handler.
func (g *Group) PATCH(path string, handler HandlerFunc) { g.Handle(http.MethodPatch, path, handler) }

// DELETE registers a DELETE handler.
func (g *Group) DELETE(path string, handler HandlerFunc) { g.Handle(http.MethodDelete, path, handler) }

// HEAD registers a HEAD handler.
func (g *Group) HEAD(path string, handler HandlerFunc) { g.Handle(http.MethodHead, path, handler) }

// OPTIONS registers an OPTIONS handler.
func (g *Group) OPTIONS(path string, handler HandlerFunc) { g.Handle(http.MethodOptions, path, handler) }

// Any registers handler for every method in Methods.
func (g *Group) Any(path string, handler HandlerFunc) {
	for _, method := range Methods {
		g.Handle(method, path, handler)
	}
}

// Err returns the registration errors collected so far, joined.
func (g *Group) Err() error {
	return errors.Join(g.errs...)
}
