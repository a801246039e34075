package middleware

import "github.com/aretw0/inertia/pkg/ports"

// Middleware allows wrapping a PayloadCache to add behavior.
type Middleware func(ports.PayloadCache) ports.PayloadCache
