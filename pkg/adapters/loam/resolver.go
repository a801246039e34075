package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/inertia/pkg/props"
)

// Resolver adapts a Loam repository of partial documents to ports.PartialCatalog.
// A partial is named by its path without extension ("cards/user" for
// cards/user.md) and projects fields of its locals into the calling scope.
type Resolver struct {
	Repo *loam.TypedRepository[PartialMetadata]
}

// New creates a new Loam resolver.
func New(repo *loam.TypedRepository[PartialMetadata]) *Resolver {
	return &Resolver{
		Repo: repo,
	}
}

// Open initializes a read-only, strict Loam repository at path and wraps it.
func Open(path string) (*Resolver, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Strict mode keeps numbers as json.Number so defaults keep their exact text.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}

	return New(loam.NewTypedRepository[PartialMetadata](repo)), nil
}

// Lookup loads the partial document named name.
func (r *Resolver) Lookup(name string) (props.Partial, error) {
	ctx := context.Background()

	doc, err := r.Repo.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", props.ErrPartialNotFound, name, err)
	}

	meta := doc.Data
	body := strings.TrimSpace(doc.Content)

	return func(s props.Scope, locals any) error {
		values, err := decodeLocals(locals)
		if err != nil {
			return fmt.Errorf("decode locals: %w", err)
		}

		for _, f := range meta.Fields {
			v, ok := values[f]
			if !ok {
				v, ok = meta.Defaults[f]
			}
			if !ok {
				s.SetNull(f)
				continue
			}
			s.Set(f, v)
		}

		for _, k := range sortedKeys(meta.Static) {
			s.Set(k, meta.Static[k])
		}

		if meta.ContentKey != "" {
			s.Set(meta.ContentKey, body)
		}
		return nil
	}, nil
}

// Names lists all partials in the repository.
func (r *Resolver) Names() ([]string, error) {
	ctx := context.Background()
	docs, err := r.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	names := make([]string, 0, len(docs))

	for _, doc := range docs {
		// Use the ID from metadata if available, otherwise filename ID
		rawID := doc.Data.ID
		if rawID == "" {
			rawID = doc.ID
		}
		name := trimExtension(rawID)

		if existingPath, ok := seen[name]; ok {
			return nil, fmt.Errorf("collision detected: partial '%s' is defined in both '%s' and '%s'", name, existingPath, doc.ID)
		}
		seen[name] = doc.ID
		names = append(names, name)
	}

	sort.Strings(names)
	return names, nil
}

// decodeLocals flattens locals (a map or a struct) into a map keyed by
// field name, honoring mapstructure tags.
func decodeLocals(locals any) (map[string]any, error) {
	switch v := locals.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return v, nil
	}

	out := make(map[string]any)
	if err := mapstructure.Decode(locals, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
