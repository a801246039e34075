package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/inertia/pkg/domain"
	"github.com/aretw0/inertia/pkg/props"
)

// Tags understood in the props of a page file.
const (
	TagAlways   = "!always"
	TagOptional = "!optional"
	TagDefer    = "!defer"
	TagPartial  = "!partial"
	TagEach     = "!each"
	TagParam    = "!param"
	TagNull     = "!null"
)

// PageFile is a page described in YAML:
//
//	component: Users/Show
//	path: /users/{id}
//	props:
//	  id: !param id
//	  user: !partial {name: cards/user, locals: {name: Ada}}
//	  stats: !optional {visits: 3}
//	  feed: !defer:activity [a, b]
//
// Props keep the order of the file.
type PageFile struct {
	Component      string         `yaml:"component"`
	URL            string         `yaml:"url"`
	Path           string         `yaml:"path"`
	Method         string         `yaml:"method"`
	Version        string         `yaml:"version"`
	EncryptHistory bool           `yaml:"encrypt_history"`
	ClearHistory   bool           `yaml:"clear_history"`
	Errors         map[string]any `yaml:"errors"`
	Props          yaml.Node      `yaml:"props"`
}

// LoadPage reads and parses a page file.
func LoadPage(path string) (*PageFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read page: %w", err)
	}
	page, err := ParsePage(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return page, nil
}

// ParsePage parses a page document.
func ParsePage(data []byte) (*PageFile, error) {
	var page PageFile
	if err := yaml.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	if page.Component == "" {
		return nil, fmt.Errorf("page has no component")
	}
	if page.Props.Kind != 0 && page.Props.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("page props must be a mapping (line %d)", page.Props.Line)
	}
	return &page, nil
}

// LoadPages parses every .yaml/.yml file under dir, sorted by path.
func LoadPages(dir string) ([]*PageFile, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	sort.Strings(paths)

	pages := make([]*PageFile, 0, len(paths))
	for _, path := range paths {
		page, err := LoadPage(path)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// Meta returns the page metadata.
func (p *PageFile) Meta() domain.PageMeta {
	return domain.PageMeta{
		Component:      p.Component,
		URL:            p.URL,
		Version:        p.Version,
		EncryptHistory: p.EncryptHistory,
		ClearHistory:   p.ClearHistory,
		Errors:         p.Errors,
	}
}

// Build returns the builder assigning the page props.
func (p *PageFile) Build() props.BuildFunc {
	return func(s props.Scope) error {
		if p.Props.Kind == 0 {
			return nil
		}
		return buildMapping(s, &p.Props)
	}
}

func buildMapping(s props.Scope, node *yaml.Node) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if err := assign(s, key.Value, value); err != nil {
			return fmt.Errorf("%s (line %d): %w", key.Value, key.Line, err)
		}
	}
	return nil
}

func assign(s props.Scope, key string, node *yaml.Node) error {
	tag := node.Tag
	switch {
	case tag == TagAlways:
		return s.Always(func(s props.Scope) error { return assign(s, key, untagged(node)) })
	case tag == TagOptional:
		return s.Optional(func(s props.Scope) error { return assign(s, key, untagged(node)) })
	case tag == TagDefer || strings.HasPrefix(tag, TagDefer+":"):
		group := strings.TrimPrefix(strings.TrimPrefix(tag, TagDefer), ":")
		return s.Defer(group, func(s props.Scope) error { return assign(s, key, untagged(node)) })
	case tag == TagPartial:
		return assignPartial(s, key, node)
	case tag == TagEach:
		return assignEach(s, key, node)
	case tag == TagParam:
		name := node.Value
		return s.SetFunc(key, func(ctx context.Context) (any, error) {
			return chi.URLParamFromCtx(ctx, name), nil
		})
	case tag == TagNull || tag == "!!null":
		s.SetNull(key)
		return nil
	}

	switch node.Kind {
	case yaml.MappingNode:
		return s.Block(key, func(s props.Scope) error { return buildMapping(s, node) })
	case yaml.SequenceNode:
		if isObjectList(node) {
			return props.Each(s, key, node.Content, buildMapping)
		}
	case yaml.AliasNode:
		return assign(s, key, node.Alias)
	}

	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	s.Set(key, v)
	return nil
}

// partialRef is the payload of a !partial or !each tag.
type partialRef struct {
	Name   string           `yaml:"name"`
	Locals map[string]any   `yaml:"locals"`
	Items  []map[string]any `yaml:"items"`
}

func decodeRef(node *yaml.Node) (partialRef, error) {
	var ref partialRef
	if node.Kind == yaml.ScalarNode {
		ref.Name = node.Value
		return ref, nil
	}
	if err := untagged(node).Decode(&ref); err != nil {
		return ref, err
	}
	if ref.Name == "" {
		return ref, fmt.Errorf("partial reference has no name")
	}
	return ref, nil
}

func assignPartial(s props.Scope, key string, node *yaml.Node) error {
	ref, err := decodeRef(node)
	if err != nil {
		return err
	}
	return s.Block(key, func(s props.Scope) error {
		return s.Partial(ref.Name, ref.Locals)
	})
}

func assignEach(s props.Scope, key string, node *yaml.Node) error {
	ref, err := decodeRef(node)
	if err != nil {
		return err
	}
	return props.EachPartial(s, key, ref.Name, ref.Items)
}

func isObjectList(node *yaml.Node) bool {
	if len(node.Content) == 0 {
		return false
	}
	for _, item := range node.Content {
		if item.Kind != yaml.MappingNode {
			return false
		}
	}
	return true
}

func untagged(node *yaml.Node) *yaml.Node {
	n := *node
	n.Tag = ""
	return &n
}
