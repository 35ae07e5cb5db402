package route

import "github.com/gin-gonic/gin"

const bodyKey = "apodserver.body"

// Param returns the value of the named path parameter, or "".
func Param(c *gin.Context, name string) string {
	return c.Param(name)
}

// Params returns all path parameters of the matched route.
func Params(c *gin.Context) map[string]string {
	params := make(map[string]string, len(c.Params))
	for _, p := range c.Params {
		params[p.Key] = p.Value
	}
	return params
}

// SetBody stores the parsed request body on the context.
func SetBody(c *gin.Context, body map[string]any) {
	c.Set(bodyKey, body)
}

// Body returns the parsed request body. Requests without a parsable body
// yield an empty, non-nil map.
func Body(c *gin.Context) map[string]any {
	if v, ok := c.Get(bodyKey); ok {
		if body, ok := v.(map[string]any); ok && body != nil {
			return body
		}
	}
	return map[string]any{}
}
