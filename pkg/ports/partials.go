package ports

import "github.com/aretw0/inertia/pkg/props"

// PartialCatalog is a partial resolver that can list what it serves.
type PartialCatalog interface {
	props.Resolver

	// Names returns every partial name in a deterministic order.
	// This is used for startup checks and the 'inertia partials' command.
	Names() ([]string, error)
}
