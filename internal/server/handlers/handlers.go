// Package handlers provides the route modules mounted by the apodserver
// HTTP server. Each module owns a path prefix and registers its endpoints
// in Init; handlers return errors and leave failure responses to the
// server's error boundary.
package handlers

import (
	"github.com/agentstation/apodserver/internal/route"
)

var (
	_ route.Module = (*Health)(nil)
	_ route.Module = (*TestCRUD)(nil)
	_ route.Module = (*APOD)(nil)
)
