package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/inertia"
	inertiahttp "github.com/aretw0/inertia/pkg/adapters/http"
	"github.com/aretw0/inertia/pkg/domain"
)

// RenderOptions contains the configuration for the render command.
type RenderOptions struct {
	// Component simulates a partial reload for that component. It defaults
	// to the page component when Only or Except is set.
	Component string
	Only      []string
	Except    []string
	HTML      bool
	Pretty    bool
	RootID    string
}

// Mode returns the reload mode described by the options.
func (o RenderOptions) Mode(page *PageFile) domain.ReloadMode {
	if o.Component == "" && len(o.Only) == 0 && len(o.Except) == 0 {
		return domain.FullReload()
	}
	component := o.Component
	if component == "" {
		component = page.Component
	}
	mode := domain.PartialReload(component, o.Only...)
	if len(o.Except) > 0 {
		mode = mode.WithExcept(o.Except...)
	}
	return mode
}

// Render renders page with engine and writes the envelope, or the HTML root
// element, to w.
func Render(ctx context.Context, engine *inertia.Engine, page *PageFile, opts RenderOptions, w io.Writer) error {
	meta := page.Meta()
	if meta.URL == "" {
		meta.URL = page.Path
	}

	out, err := engine.Render(ctx, meta, opts.Mode(page), page.Build())
	if err != nil {
		return err
	}

	if opts.HTML {
		rs := inertiahttp.NewResponder(engine, inertiahttp.WithRootID(opts.RootID))
		el, err := rs.RootElement(out)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, el)
		return err
	}

	enc := json.NewEncoder(w)
	if opts.Pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(out)
}
