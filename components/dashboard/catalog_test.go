package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogDescribeIsStable(t *testing.T) {
	catalog, err := NewCatalog()
	require.NoError(t, err)

	first, ok := catalog.Describe("line_chart")
	require.True(t, ok)
	first.ConfigurableFields[0] = "mutated"
	first.Schema["extra"] = true
	first.Schema["properties"].(map[string]any)["title"] = map[string]any{"type": "number"}

	second, ok := catalog.Describe("line_chart")
	require.True(t, ok)
	third, _ := catalog.Describe("line_chart")
	assert.Equal(t, second, third)
	assert.Equal(t, "title", second.ConfigurableFields[0])
	assert.NotContains(t, second.Schema, "extra")
	title := second.Schema["properties"].(map[string]any)["title"].(map[string]any)
	assert.Equal(t, "string", title["type"])

	_, ok = catalog.Describe("sparkline")
	assert.False(t, ok)
}

func TestCatalogRegisterKeepsOrder(t *testing.T) {
	catalog := NewEmptyCatalog()
	require.NoError(t, catalog.Register(WidgetTypeDescriptor{ID: "a", DisplayName: "A", DefaultSize: Size{Width: 1, Height: 1}}))
	require.NoError(t, catalog.Register(WidgetTypeDescriptor{ID: "b", DisplayName: "B", DefaultSize: Size{Width: 2, Height: 1}}))
	require.NoError(t, catalog.Register(WidgetTypeDescriptor{ID: "a", DisplayName: "A2", DefaultSize: Size{Width: 1, Height: 1}}))

	types := catalog.Types()
	require.Len(t, types, 2)
	assert.Equal(t, "a", types[0].ID)
	assert.Equal(t, "A2", types[0].DisplayName)

	assert.Error(t, catalog.Register(WidgetTypeDescriptor{DisplayName: "no id", DefaultSize: Size{Width: 1, Height: 1}}))
	assert.Error(t, catalog.Register(WidgetTypeDescriptor{ID: "flat", DefaultSize: Size{Width: 1}}))
}
