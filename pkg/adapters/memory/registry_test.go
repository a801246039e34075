package memory_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/inertia/pkg/adapters/memory"
	"github.com/aretw0/inertia/pkg/ports/tests"
	"github.com/aretw0/inertia/pkg/props"
)

func userCard(s props.Scope, locals any) error {
	u := locals.(map[string]any)
	s.Set("id", u["id"])
	s.Set("name", u["name"])
	return nil
}

func userBadge(s props.Scope, locals any) error {
	u := locals.(map[string]any)
	return s.Block("badge", func(s props.Scope) error {
		s.Set("label", u["name"])
		return nil
	})
}

func TestRegistry_Contract(t *testing.T) {
	registry := memory.NewRegistry(map[string]props.Partial{
		"users/card":  userCard,
		"users/badge": userBadge,
	})

	tests.PartialCatalogContractTest(t, registry,
		map[string]any{"id": 7, "name": "Ada"},
		map[string]string{
			"users/card":  `{"id":7,"name":"Ada"}`,
			"users/badge": `{"badge":{"label":"Ada"}}`,
		},
	)
}

func TestRegistry_NamesAreSorted(t *testing.T) {
	registry := memory.NewRegistry(nil)
	registry.Register("b", userCard)
	registry.Register("a", userCard)

	names, err := registry.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	registry := memory.NewRegistry(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			registry.Register("p", userCard)
		}()
		go func() {
			defer wg.Done()
			_, _ = registry.Lookup("p")
		}()
	}
	wg.Wait()

	_, err := registry.Lookup("p")
	assert.NoError(t, err)
}
