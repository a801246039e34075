package domain

import "slices"

// ReloadMode describes which top-level props the client asked for.
// The zero value is a full page load.
type ReloadMode struct {
	// Partial is true when the client requested a subset of props.
	Partial bool
	// Component is the component the partial reload targets.
	Component string
	// Only lists the requested top-level keys.
	Only []string
	// Except lists top-level keys the client does not want back.
	Except []string
}

// FullReload returns the mode for an initial (or downgraded) page load.
func FullReload() ReloadMode {
	return ReloadMode{}
}

// PartialReload returns the mode for a partial reload of the given keys on component.
func PartialReload(component string, only ...string) ReloadMode {
	return ReloadMode{
		Partial:   true,
		Component: component,
		Only:      only,
	}
}

// WithExcept returns a copy of m that also drops the given keys.
func (m ReloadMode) WithExcept(keys ...string) ReloadMode {
	m.Except = append(slices.Clone(m.Except), keys...)
	return m
}

// For resolves the mode against the component actually being rendered.
// A partial reload aimed at a different component is treated as a full load.
func (m ReloadMode) For(component string) ReloadMode {
	if m.Partial && m.Component != component {
		return FullReload()
	}
	return m
}

// Includes reports whether a top-level key with the given annotation is sent.
// Full loads never consult Only or Except.
func (m ReloadMode) Includes(key string, a Annotation) bool {
	if a == Always {
		return true
	}
	if !m.Partial {
		return a == Normal
	}
	if slices.Contains(m.Except, key) {
		return false
	}
	if len(m.Only) == 0 && len(m.Except) > 0 {
		// An except-only reload keeps the full-load set minus the excluded keys.
		return a == Normal
	}
	return slices.Contains(m.Only, key)
}

// Advertises reports whether deferred keys should be announced in the envelope.
func (m ReloadMode) Advertises() bool {
	return !m.Partial
}

// String returns "full" or "partial".
func (m ReloadMode) String() string {
	if m.Partial {
		return "partial"
	}
	return "full"
}
