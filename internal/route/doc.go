// Package route declares HTTP endpoints as self-contained modules and
// dispatches requests to them.
//
// A Module owns a path prefix and registers its endpoints through a Group,
// which prefixes every sub-path and forwards the registration to the shared
// Router. Handlers return an error instead of writing failure responses
// themselves; Wrap records that error on the request so the error boundary
// installed by the server can turn it into a response envelope.
//
//	type Stars struct{}
//
//	func (Stars) Prefix() string { return "/stars" }
//
//	func (s Stars) Init(g *route.Group) error {
//		g.GET("/:name", s.get)
//		return nil
//	}
//
//	func (Stars) get(c *gin.Context) error {
//		name := route.Param(c, "name")
//		if name == "sun" {
//			return errors.NotFound("Not a star.")
//		}
//		response.OK(c.Writer, name)
//		return nil
//	}
//
//	router, _ := route.NewRouter(gin.New(), logger)
//	if err := route.Mount(router, Stars{}); err != nil {
//		// duplicate routes, empty prefixes and unimplemented modules fail here
//	}
package route
