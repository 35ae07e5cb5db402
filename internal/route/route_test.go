package route

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/apodserver/internal/server/response"
	"github.com/agentstation/apodserver/pkg/errors"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	r, err := NewRouter(gin.New(), nil)
	require.NoError(t, err)
	return r
}

func serve(r http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

type echoModule struct{}

func (echoModule) Prefix() string { return "/echo" }

func (m echoModule) Init(g *Group) error {
	g.GET("/:id", m.get)
	g.POST("", m.create)
	return nil
}

func (echoModule) get(c *gin.Context) error {
	response.OK(c.Writer, Param(c, "id"))
	return nil
}

func (echoModule) create(c *gin.Context) error {
	response.OK(c.Writer, "created")
	return nil
}

type lazyModule struct {
	Unimplemented
}

func (lazyModule) Prefix() string { return "/lazy" }

type prefixModule struct {
	prefix string
	init   func(g *Group) error
}

func (m prefixModule) Prefix() string { return m.prefix }

func (m prefixModule) Init(g *Group) error {
	if m.init == nil {
		return nil
	}
	return m.init(g)
}

func TestNewRouter_RequiresEngine(t *testing.T) {
	r, err := NewRouter(nil, nil)
	assert.Nil(t, r)
	assert.True(t, errors.IsConfigurationError(err))
}

func TestRouter_Dispatch(t *testing.T) {
	r := newTestRouter(t)
	require.NoError(t, Mount(r, echoModule{}))

	w := serve(r, http.MethodGet, "/echo/123")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"data":"123","error":null}`+"\n", w.Body.String())

	w = serve(r, http.MethodPost, "/echo")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"created"`)
}

func TestRouter_NoRoute(t *testing.T) {
	r := newTestRouter(t)
	require.NoError(t, Mount(r, echoModule{}))

	tests := []struct {
		name    string
		method  string
		target  string
		message string
	}{
		{"unknown path", http.MethodGet, "/nowhere", "Cannot GET /nowhere"},
		{"unknown method", http.MethodDelete, "/echo/1", "Cannot DELETE /echo/1"},
		{"trailing slash", http.MethodGet, "/echo/1/", "Cannot GET /echo/1/"},
		{"trailing slash on prefix route", http.MethodPost, "/echo/", "Cannot POST /echo/"},
		{"case mismatch", http.MethodGet, "/ECHO/1", "Cannot GET /ECHO/1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, tt.method, tt.target)
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.Empty(t, w.Header().Get("Location"))
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, `{"data":null,"error":"`+tt.message+`"}`+"\n", w.Body.String())
		})
	}
}

func TestRouter_Handle_Validation(t *testing.T) {
	ok := func(c *gin.Context) error { return nil }

	tests := []struct {
		name    string
		method  string
		path    string
		handler HandlerFunc
	}{
		{"unsupported method", "FETCH", "/x", ok},
		{"relative path", http.MethodGet, "x", ok},
		{"empty path", http.MethodGet, "", ok},
		{"nil handler", http.MethodGet, "/x", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t)
			err := r.Handle(tt.method, tt.path, tt.handler)
			assert.True(t, errors.IsConfigurationError(err), "got %v", err)
			assert.Zero(t, r.Len())
		})
	}
}

func TestRouter_Handle_LowercaseMethod(t *testing.T) {
	r := newTestRouter(t)
	require.NoError(t, r.Handle("get", "/ping", func(c *gin.Context) error {
		response.OK(c.Writer, "pong")
		return nil
	}))

	w := serve(r, http.MethodGet, "/ping")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_DuplicateRegistration(t *testing.T) {
	r := newTestRouter(t)
	h := func(c *gin.Context) error { return nil }

	require.NoError(t, r.Handle(http.MethodGet, "/dup", h))
	err := r.Handle(http.MethodGet, "/dup", h)
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "GET /dup")

	// same path, different method is a distinct binding
	assert.NoError(t, r.Handle(http.MethodPost, "/dup", h))
	assert.Equal(t, 2, r.Len())
}

func TestRouter_ConflictingPatterns(t *testing.T) {
	r := newTestRouter(t)
	h := func(c *gin.Context) error { return nil }

	require.NoError(t, r.Handle(http.MethodGet, "/items/:id", h))
	err := r.Handle(http.MethodGet, "/items/:name", h)
	assert.True(t, errors.IsConfigurationError(err), "got %v", err)
}

func TestRouter_Routes_Sorted(t *testing.T) {
	r := newTestRouter(t)
	require.NoError(t, Mount(r, echoModule{}, prefixModule{
		prefix: "/apod",
		init: func(g *Group) error {
			g.GET("/image", func(c *gin.Context) error { return nil })
			return nil
		},
	}))

	routes := r.Routes()
	require.Len(t, routes, 3)

	assert.Equal(t, "/apod/image", routes[0].Path)
	assert.Equal(t, "/apod", routes[0].Module)
	assert.Equal(t, "/echo", routes[1].Path)
	assert.Equal(t, http.MethodPost, routes[1].Method)
	assert.Equal(t, "/echo/:id", routes[2].Path)
	assert.Equal(t, http.MethodGet, routes[2].Method)
}

func TestNewGroup_Validation(t *testing.T) {
	r := newTestRouter(t)

	_, err := NewGroup("", r)
	assert.True(t, errors.IsConfigurationError(err))

	_, err = NewGroup("apod", r)
	assert.True(t, errors.IsConfigurationError(err))

	_, err = NewGroup("/apod", nil)
	assert.True(t, errors.IsConfigurationError(err))

	g, err := NewGroup("/apod/", r)
	require.NoError(t, err)
	assert.Equal(t, "/apod", g.Prefix())
}

func TestGroup_Verbs(t *testing.T) {
	r := newTestRouter(t)
	g, err := NewGroup("/v", r)
	require.NoError(t, err)

	h := func(c *gin.Context) error {
		c.Status(http.StatusNoContent)
		return nil
	}
	g.GET("/get", h)
	g.POST("/post", h)
	g.PUT("/put", h)
	g.PATCH("/patch", h)
	g.DELETE("/delete", h)
	g.HEAD("/head", h)
	g.OPTIONS("/options", h)
	require.NoError(t, g.Err())

	for _, method := range []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"} {
		w := serve(r, method, "/v/"+strings.ToLower(method))
		assert.Equal(t, http.StatusNoContent, w.Code, method)
	}
}

func TestGroup_Any(t *testing.T) {
	r := newTestRouter(t)
	g, err := NewGroup("/any", r)
	require.NoError(t, err)

	g.Any("", func(c *gin.Context) error {
		response.OK(c.Writer, c.Request.Method)
		return nil
	})
	require.NoError(t, g.Err())
	assert.Equal(t, len(Methods), r.Len())

	w := serve(r, http.MethodPatch, "/any")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "PATCH")
}

func TestGroup_CollectsErrors(t *testing.T) {
	r := newTestRouter(t)
	g, err := NewGroup("/x", r)
	require.NoError(t, err)

	h := func(c *gin.Context) error { return nil }
	g.GET("/a", h)
	g.GET("/a", h)
	g.GET("/b", nil)

	err = g.Err()
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "GET /x/a")
	assert.Contains(t, err.Error(), "nil handler")
}

func TestMount_Unimplemented(t *testing.T) {
	r := newTestRouter(t)

	err := Mount(r, lazyModule{})
	require.Error(t, err)
	assert.True(t, errors.IsNotImplemented(err))
	assert.Contains(t, err.Error(), "/lazy")
	assert.Contains(t, err.Error(), "Init() must be implemented")
	assert.Zero(t, r.Len())
}

func TestMount_EmptyPrefix(t *testing.T) {
	r := newTestRouter(t)
	called := false

	err := Mount(r, prefixModule{prefix: "", init: func(g *Group) error {
		called = true
		return nil
	}})
	assert.True(t, errors.IsConfigurationError(err))
	assert.False(t, called, "Init must not run without a prefix")
}

func TestMount_NilModule(t *testing.T) {
	r := newTestRouter(t)
	err := Mount(r, nil)
	assert.True(t, errors.IsConfigurationError(err))
}

func TestMount_InitRunsOnce(t *testing.T) {
	r := newTestRouter(t)
	calls := 0

	require.NoError(t, Mount(r, prefixModule{prefix: "/once", init: func(g *Group) error {
		calls++
		g.GET("", func(c *gin.Context) error { return nil })
		return nil
	}}))
	assert.Equal(t, 1, calls)
}

func TestMount_DuplicateAcrossModules(t *testing.T) {
	r := newTestRouter(t)

	err := Mount(r, echoModule{}, echoModule{})
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "mount /echo")
}

func TestMount_StopsAtFirstFailure(t *testing.T) {
	r := newTestRouter(t)
	laterCalled := false

	err := Mount(r,
		lazyModule{},
		prefixModule{prefix: "/later", init: func(g *Group) error {
			laterCalled = true
			return nil
		}},
	)
	require.Error(t, err)
	assert.False(t, laterCalled)
}
