package runtime

import (
	"github.com/aretw0/inertia/pkg/domain"
	"github.com/aretw0/inertia/pkg/props"
)

// Assemble puts the evaluated props and the page metadata into an envelope.
// An empty meta.Version becomes a null version.
func Assemble(meta domain.PageMeta, res *props.Result) *domain.Page {
	page := &domain.Page{
		Component:      meta.Component,
		Props:          res.Props,
		URL:            meta.URL,
		EncryptHistory: meta.EncryptHistory,
		ClearHistory:   meta.ClearHistory,
		DeferredProps:  res.DeferredProps,
	}
	if meta.Version != "" {
		v := meta.Version
		page.Version = &v
	}
	return page
}
