package loam_test

import (
	"testing"

	"github.com/aretw0/loam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/inertia/internal/testutils"
	loamAdapter "github.com/aretw0/inertia/pkg/adapters/loam"
	"github.com/aretw0/inertia/pkg/domain"
	"github.com/aretw0/inertia/pkg/ports/tests"
	"github.com/aretw0/inertia/pkg/props"
)

const cardDoc = `---
fields:
  - id
  - name
  - role
defaults:
  role: guest
static:
  kind: user
  active: true
content_key: bio
---
Writes compilers.
`

const badgeDoc = `---
fields:
  - name
  - avatar
---
`

type person struct {
	ID   int    `mapstructure:"id"`
	Name string `mapstructure:"name"`
}

func newResolver(t *testing.T, files map[string]string) *loamAdapter.Resolver {
	t.Helper()
	dir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, dir, files)
	return loamAdapter.New(loam.NewTypedRepository[loamAdapter.PartialMetadata](repo))
}

func TestResolver_Contract(t *testing.T) {
	resolver := newResolver(t, map[string]string{
		"card.md":  cardDoc,
		"badge.md": badgeDoc,
	})

	tests.PartialCatalogContractTest(t, resolver, person{ID: 1, Name: "Ada"}, map[string]string{
		"card":  `{"id":1,"name":"Ada","role":"guest","active":true,"kind":"user","bio":"Writes compilers."}`,
		"badge": `{"name":"Ada","avatar":null}`,
	})
}

func TestResolver_MapLocalsOverrideDefaults(t *testing.T) {
	resolver := newResolver(t, map[string]string{"card.md": cardDoc})

	p, err := resolver.Lookup("card")
	require.NoError(t, err)

	root, err := props.NewBuilder(nil).Build(t.Context(), func(s props.Scope) error {
		return s.Block("card", func(s props.Scope) error {
			return p(s, map[string]any{"id": 2, "name": "Grace", "role": "admin"})
		})
	})
	require.NoError(t, err)

	res, err := props.Evaluate(t.Context(), root, domain.FullReload())
	require.NoError(t, err)

	card, ok := res.Props.Get("card")
	require.True(t, ok)
	assert.Contains(t, marshal(t, card), `"role":"admin"`)
}

func TestResolver_EachPartial(t *testing.T) {
	resolver := newResolver(t, map[string]string{"badge.md": badgeDoc})

	root, err := props.NewBuilder(resolver).Build(t.Context(), func(s props.Scope) error {
		return props.EachPartial(s, "people", "badge", []person{{Name: "Ada"}, {Name: "Grace"}})
	})
	require.NoError(t, err)

	res, err := props.Evaluate(t.Context(), root, domain.FullReload())
	require.NoError(t, err)
	assert.Equal(t, `{"people":[{"name":"Ada","avatar":null},{"name":"Grace","avatar":null}]}`, marshal(t, res.Props))
}

func TestResolver_Names_DetectsCollisions(t *testing.T) {
	resolver := newResolver(t, map[string]string{
		"foo.md": `---
id: foo
fields: [a]
---
`,
		"foo.json": `{"id": "foo", "fields": ["a"]}`,
	})

	_, err := resolver.Names()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
	assert.Contains(t, err.Error(), "foo")
}

func TestOpen(t *testing.T) {
	dir, _ := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, dir, map[string]string{"badge.md": badgeDoc})

	resolver, err := loamAdapter.Open(dir)
	require.NoError(t, err)

	names, err := resolver.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"badge"}, names)
}
