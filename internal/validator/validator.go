package validator

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/inertia/internal/cli"
)

// ValidatePages checks page files without rendering them: every referenced
// partial must be listed by names, annotation tags must not be nested, and
// no two pages may share a route.
// Pass nil names to skip the partial check.
func ValidatePages(pages []*cli.PageFile, names []string) error {
	known := make(map[string]bool, len(names))
	for _, n := range names {
		known[n] = true
	}

	var errors []string
	for _, page := range pages {
		w := walker{page: page.Component, known: known, checkPartials: names != nil}
		if page.Props.Kind == yaml.MappingNode {
			w.mapping(&page.Props, "", false)
		}
		errors = append(errors, w.errors...)
	}

	var routed []*cli.PageFile
	for _, page := range pages {
		if page.Path != "" {
			routed = append(routed, page)
		}
	}
	if _, err := cli.Routes(routed); err != nil {
		errors = append(errors, err.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}
	return nil
}

type walker struct {
	page          string
	known         map[string]bool
	checkPartials bool
	errors        []string
}

func (w *walker) fail(node *yaml.Node, path, format string, args ...any) {
	w.errors = append(w.errors, fmt.Sprintf("%s: %s (line %d): %s", w.page, path, node.Line, fmt.Sprintf(format, args...)))
}

func (w *walker) mapping(node *yaml.Node, prefix string, annotated bool) {
	for i := 0; i+1 < len(node.Content); i += 2 {
		w.value(node.Content[i+1], prefix+node.Content[i].Value, annotated)
	}
}

func (w *walker) value(node *yaml.Node, path string, annotated bool) {
	tag := node.Tag
	switch {
	case tag == cli.TagAlways || tag == cli.TagOptional || tag == cli.TagDefer || strings.HasPrefix(tag, cli.TagDefer+":"):
		if annotated {
			w.fail(node, path, "%s inside an annotated prop", tag)
		}
		annotated = true
	case tag == cli.TagPartial || tag == cli.TagEach:
		w.partial(node, path)
		return
	case strings.HasPrefix(tag, "!") && !strings.HasPrefix(tag, "!!") && tag != cli.TagParam && tag != cli.TagNull:
		w.fail(node, path, "unknown tag %s", tag)
	}

	switch node.Kind {
	case yaml.MappingNode:
		w.mapping(node, path+".", annotated)
	case yaml.SequenceNode:
		for i, item := range node.Content {
			w.value(item, fmt.Sprintf("%s[%d]", path, i), annotated)
		}
	}
}

func (w *walker) partial(node *yaml.Node, path string) {
	name := node.Value
	if node.Kind == yaml.MappingNode {
		name = ""
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == "name" {
				name = node.Content[i+1].Value
			}
		}
	}
	if name == "" {
		w.fail(node, path, "partial reference has no name")
		return
	}
	if w.checkPartials && !w.known[name] {
		w.fail(node, path, "unknown partial %q", name)
	}
}
