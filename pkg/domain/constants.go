package domain

// Protocol header names.
const (
	HeaderInertia          = "X-Inertia"
	HeaderVersion          = "X-Inertia-Version"
	HeaderLocation         = "X-Inertia-Location"
	HeaderPartialData      = "X-Inertia-Partial-Data"
	HeaderPartialExcept    = "X-Inertia-Partial-Except"
	HeaderPartialComponent = "X-Inertia-Partial-Component"
)

// KeyErrors is the prop key that carries the validation error bag.
const KeyErrors = "errors"

// DefaultGroup is the deferred group used when none is named.
const DefaultGroup = "default"
