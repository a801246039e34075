package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func extractProps(t *testing.T, envelope string) string {
	t.Helper()
	var page struct {
		Props json.RawMessage `json:"props"`
	}
	require.NoError(t, json.Unmarshal([]byte(envelope), &page))
	return string(page.Props)
}
