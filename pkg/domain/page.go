package domain

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// PageMeta is the host-supplied metadata of a single render.
type PageMeta struct {
	Component      string
	URL            string
	Version        string // empty means no version token
	EncryptHistory bool
	ClearHistory   bool

	// Errors seeds the error bag when it is enabled; nil means an empty bag.
	Errors map[string]any
}

// Page is the wire envelope of one page render.
type Page struct {
	Component      string                                   `json:"component"`
	Props          *orderedmap.OrderedMap[string, any]      `json:"props"`
	URL            string                                   `json:"url"`
	Version        *string                                  `json:"version"`
	EncryptHistory bool                                     `json:"encryptHistory"`
	ClearHistory   bool                                     `json:"clearHistory"`
	DeferredProps  *orderedmap.OrderedMap[string, []string] `json:"deferredProps,omitempty"`
}
