package route

import (
	"fmt"

	"github.com/agentstation/apodserver/pkg/errors"
)

// Module is a self-contained set of endpoints living under one path prefix.
type Module interface {
	// Prefix returns the path prefix shared by every endpoint of the module.
	Prefix() string

	// Init registers the module's endpoints on g. It is called exactly
	// once, when the module is mounted.
	Init(g *Group) error
}

// Unimplemented can be embedded in a module type. A module that embeds it
// but does not declare its own Init fails to mount.
type Unimplemented struct{}

// Init always returns a NotImplementedError.
func (Unimplemented) Init(*Group) error {
	return errors.NewNotImplementedError("", "Init")
}

// Mount initializes each module against router, in order. The first module
// that fails stops the mount; callers treat the error as fatal at startup.
func Mount(router *Router, modules ...Module) error {
	for i, m := range modules {
		if m == nil {
			return errors.NewConfigurationError("route", fmt.Sprintf("module %d is nil", i), nil)
		}

		prefix := m.Prefix()
		g, err := NewGroup(prefix, router)
		if err != nil {
			return err
		}

		if err := m.Init(g); err != nil {
			var nie *errors.NotImplementedError
			if errors.As(err, &nie) && nie.Component == "" {
				nie.Component = fmt.Sprintf("route module %T (%s)", m, prefix)
			}
			return err
		}

		if err := g.Err(); err != nil {
			return fmt.Errorf("mount %s: %w", prefix, err)
		}

		router.logger.Info().
			Str("module", prefix).
			Msg("Route module mounted")
	}
	return nil
}
