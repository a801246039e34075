package loam

// PartialMetadata is the front matter of a partial document.
// It uses "mapstructure" tags to match standard Frontmatter/YAML keys.
type PartialMetadata struct {
	ID string `json:"id" mapstructure:"id"`

	// Fields lists the keys copied from the locals, in output order.
	Fields []string `json:"fields" mapstructure:"fields"`

	// Defaults provides fallback values for fields missing from the locals.
	Defaults map[string]any `json:"defaults" mapstructure:"defaults"`

	// Static props are emitted after the fields, sorted by key.
	Static map[string]any `json:"static" mapstructure:"static"`

	// ContentKey, when set, emits the trimmed document body under that key.
	ContentKey string `json:"content_key" mapstructure:"content_key"`
}
