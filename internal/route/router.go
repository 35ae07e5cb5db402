package route

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/agentstation/apodserver/internal/server/response"
	"github.com/agentstation/apodserver/pkg/errors"
)

// Methods lists the HTTP methods a route can be registered for.
// Group.Any registers a handler for each of them.
var Methods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodHead,
	http.MethodOptions,
	http.MethodConnect,
	http.MethodTrace,
}

// HandlerFunc handles a matched request. A handler that succeeds writes its
// own response and returns nil; a handler that fails returns an error and
// writes nothing.
type HandlerFunc func(c *gin.Context) error

// Registration is one (method, path, handler) binding in the router table.
type Registration struct {
	Method  string      `json:"method" yaml:"method"`
	Path    string      `json:"path" yaml:"path"`
	Module  string      `json:"module,omitempty" yaml:"module,omitempty"`
	Handler HandlerFunc `json:"-" yaml:"-"`
}

// Router maps (method, path) pairs to handlers. The table is built during
// startup and read-only afterwards, so dispatch needs no locking.
type Router struct {
	engine *gin.Engine
	logger *zerolog.Logger
	routes map[string]Registration
}

// NewRouter creates a router that dispatches through engine. Requests that
// match no binding receive a 404 envelope written by the router itself.
func NewRouter(engine *gin.Engine, logger *zerolog.Logger) (*Router, error) {
	if engine == nil {
		return nil, errors.NewConfigurationError("router", "engine is required", nil)
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	r := &Router{
		engine: engine,
		logger: logger,
		routes: make(map[string]Registration),
	}

	// A near miss is still a miss: no 301 to the slash or case variant.
	engine.RedirectTrailingSlash = false
	engine.RedirectFixedPath = false
	engine.NoRoute(r.noRoute)
	engine.NoMethod(r.noRoute)

	return r, nil
}

// Handle registers handler for method and path. Unknown methods, relative
// paths, nil handlers and duplicate (method, path) pairs are configuration
// errors.
func (r *Router) Handle(method, path string, handler HandlerFunc) error {
	return r.handle(method, path, "", handler)
}

func (r *Router) handle(method, path, module string, handler HandlerFunc) error {
	method = strings.ToUpper(method)

	if !isSupportedMethod(method) {
		return errors.NewConfigurationError("router", fmt.Sprintf("unsupported method %q for %s", method, path), nil)
	}
	if path == "" || path[0] != '/' {
		return errors.NewConfigurationError("router", fmt.Sprintf("path %q must begin with '/'", path), nil)
	}
	if handler == nil {
		return errors.NewConfigurationError("router", fmt.Sprintf("nil handler for %s %s", method, path), nil)
	}

	key := method + " " + path
	if _, exists := r.routes[key]; exists {
		return errors.NewConfigurationError("router", "route already registered: "+key, nil)
	}

	if err := r.add(method, path, Wrap(handler)); err != nil {
		return err
	}

	r.routes[key] = Registration{
		Method:  method,
		Path:    path,
		Module:  module,
		Handler: handler,
	}

	r.logger.Debug().
		Str("method", method).
		Str("path", path).
		Str("module", module).
		Msg("Route registered")

	return nil
}

// add inserts the binding into the dispatch tree. The tree panics on
// patterns it cannot hold (for example two different parameter names in
// the same position); those become configuration errors.
func (r *Router) add(method, path string, h gin.HandlerFunc) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.NewConfigurationError(
				"router",
				fmt.Sprintf("cannot register %s %s", method, path),
				fmt.Errorf("%v", rec),
			)
		}
	}()

	r.engine.Handle(method, path, h)
	return nil
}

// ServeHTTP dispatches the request to the matching handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.engine.ServeHTTP(w, req)
}

// Routes returns the registration table sorted by path, then method.
func (r *Router) Routes() []Registration {
	routes := make([]Registration, 0, len(r.routes))
	for _, reg := range r.routes {
		routes = append(routes, reg)
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Method < routes[j].Method
	})
	return routes
}

// Len returns the number of registered bindings.
func (r *Router) Len() int {
	return len(r.routes)
}

func (r *Router) noRoute(c *gin.Context) {
	response.NotFound(c.Writer, c.Request.Method, c.Request.URL.Path)
}

func isSupportedMethod(method string) bool {
	for _, m := range Methods {
		if m == method {
			return true
		}
	}
	return false
}
