package tests

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aretw0/inertia/pkg/domain"
	"github.com/aretw0/inertia/pkg/ports"
	"github.com/aretw0/inertia/pkg/props"
)

// PartialCatalogContractTest is a reusable test suite that verifies if an adapter complies with ports.PartialCatalog.
// expected maps each partial name to the JSON it produces when rendered with locals.
func PartialCatalogContractTest(t *testing.T, catalog ports.PartialCatalog, locals any, expected map[string]string) {
	t.Helper()

	// 1. Lookup and render every partial
	t.Run("Lookup_Success", func(t *testing.T) {
		for name, want := range expected {
			got, err := renderPartial(catalog, name, locals)
			if err != nil {
				t.Fatalf("unexpected error rendering partial %s: %v", name, err)
			}
			if got != want {
				t.Errorf("payload mismatch for %s. got %s, want %s", name, got, want)
			}
		}
	})

	// 2. Lookup (NotFound)
	t.Run("Lookup_NotFound", func(t *testing.T) {
		_, err := catalog.Lookup("non-existent-partial")
		if !errors.Is(err, props.ErrPartialNotFound) {
			t.Errorf("expected ErrPartialNotFound, got %v", err)
		}
	})

	// 3. Names
	t.Run("Names", func(t *testing.T) {
		names, err := catalog.Names()
		if err != nil {
			t.Fatalf("unexpected error listing partials: %v", err)
		}
		if len(names) != len(expected) {
			t.Errorf("expected %d partials, got %d (%v)", len(expected), len(names), names)
		}

		lookup := make(map[string]bool)
		for _, name := range names {
			lookup[name] = true
		}
		for name := range expected {
			if !lookup[name] {
				t.Errorf("partial %s missing from list", name)
			}
		}
	})
}

func renderPartial(r props.Resolver, name string, locals any) (string, error) {
	ctx := context.Background()
	root, err := props.NewBuilder(r).Build(ctx, func(s props.Scope) error {
		return s.Block("out", func(s props.Scope) error {
			return s.Partial(name, locals)
		})
	})
	if err != nil {
		return "", err
	}

	res, err := props.Evaluate(ctx, root, domain.FullReload())
	if err != nil {
		return "", err
	}
	out, _ := res.Props.Get("out")
	data, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
