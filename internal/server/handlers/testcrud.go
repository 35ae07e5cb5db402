package handlers

import (
	"math/rand/v2"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agentstation/apodserver/internal/route"
	"github.com/agentstation/apodserver/internal/server/response"
	"github.com/agentstation/apodserver/pkg/errors"
)

// TestCRUD is a demo resource that fails at random so clients can
// exercise their error handling against the response envelope.
type TestCRUD struct {
	failureRate float64
	random      func() float64
}

// TestCRUDOption configures a TestCRUD module.
type TestCRUDOption func(*TestCRUD)

// WithFailureRate sets the probability, in [0,1], that a request fails.
func WithFailureRate(rate float64) TestCRUDOption {
	return func(t *TestCRUD) {
		t.failureRate = min(max(rate, 0), 1)
	}
}

// WithRandom replaces the random source. fn must return values in [0,1).
func WithRandom(fn func() float64) TestCRUDOption {
	return func(t *TestCRUD) {
		if fn != nil {
			t.random = fn
		}
	}
}

// NewTestCRUD creates the module. The default failure rate is 0.3.
func NewTestCRUD(opts ...TestCRUDOption) *TestCRUD {
	t := &TestCRUD{
		failureRate: 0.3,
		random:      rand.Float64,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Prefix implements route.Module.
func (t *TestCRUD) Prefix() string { return "/test-crud" }

// Init implements route.Module.
func (t *TestCRUD) Init(g *route.Group) error {
	g.GET("/test/:id", t.get)
	g.POST("/test", t.create)
	return nil
}

// get handles GET /test-crud/test/:id.
// @Summary Echo an id
// @Description Returns the path id, failing at random with 404
// @Tags test-crud
// @Produce json
// @Param id path string true "Any identifier"
// @Success 200 {object} response.Response{data=string}
// @Failure 404 {object} response.Response
// @Router /test-crud/test/{id} [get].
func (t *TestCRUD) get(c *gin.Context) error {
	id := route.Param(c, "id")

	if t.fails() {
		return &errors.Failure{
			Status:  http.StatusNotFound,
			Message: "Not found.",
			Err:     errors.New("simulated failure"),
		}
	}

	response.OK(c.Writer, id)
	return nil
}

// create handles POST /test-crud/test.
// @Summary Echo a body id
// @Description Returns the id field of the body, failing at random with 404
// @Tags test-crud
// @Accept json
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /test-crud/test [post].
func (t *TestCRUD) create(c *gin.Context) error {
	id, ok := route.Body(c)["id"]
	if !ok || isFalsy(id) {
		return errors.BadRequest("Missing id from body")
	}

	if t.fails() {
		return errors.NotFound("Not found")
	}

	response.OK(c.Writer, id)
	return nil
}

func (t *TestCRUD) fails() bool {
	return t.random() < t.failureRate
}

// isFalsy reports whether a decoded body value counts as absent.
func isFalsy(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case bool:
		return !val
	case float64:
		return val == 0
	default:
		return false
	}
}
