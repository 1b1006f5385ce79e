package theme

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveName(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Blog Post", "blog_post"},
		{"Landing  Page!", "landing_page"},
		{"FAQ", "faq"},
		{"Main (v2)", "main_v2"},
		{"  Trimmed  ", "trimmed"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveName(tt.title), "title %q", tt.title)
	}
}

func TestNavigationMarkupName(t *testing.T) {
	tests := []struct {
		entry NavigationEntry
		want  string
	}{
		{NavigationEntry{Title: "Footer"}, "footer_navigation.liquid"},
		{NavigationEntry{Title: "Footer", VarName: "bottom"}, "bottom_navigation.liquid"},
		{NavigationEntry{Title: "Footer", FileName: "main_navigation.liquid"}, "main_navigation.liquid"},
		{NavigationEntry{Title: "Footer", FileName: "main.liquid"}, "main_navigation.liquid"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.entry.MarkupName())
	}
}

func TestDisplayAndLayoutMarkupNames(t *testing.T) {
	assert.Equal(t, "default.liquid", DisplaySpec{Title: "Default"}.MarkupName())
	assert.Equal(t, "card.liquid", DisplaySpec{Title: "Default", FileName: "card"}.MarkupName())
	assert.Equal(t, "landing_page.liquid", LayoutEntry{Title: "Landing Page"}.MarkupName())
	assert.Equal(t, "home.liquid", LayoutEntry{Title: "Landing Page", FileName: "home.liquid"}.MarkupName())
}

func TestContentTemplateFolder(t *testing.T) {
	assert.Equal(t, "blog_post", ContentTemplateEntry{Title: "Blog Post"}.Folder())
	assert.Equal(t, "posts", ContentTemplateEntry{Title: "Blog Post", VarName: "posts"}.Folder())
	assert.Equal(t, "articles", ContentTemplateEntry{Title: "Blog Post", FolderName: "articles"}.Folder())
}

func TestRegionSpecDescriptionNullability(t *testing.T) {
	var absent RegionSpec
	require.NoError(t, json.Unmarshal([]byte(`{"title": "Main"}`), &absent))
	assert.False(t, absent.Description.Set)

	var null RegionSpec
	require.NoError(t, json.Unmarshal([]byte(`{"title": "Main", "description": null}`), &null))
	assert.True(t, null.Description.Set)
	assert.False(t, null.Description.Valid)

	var set RegionSpec
	require.NoError(t, json.Unmarshal([]byte(`{"title": "Main", "description": "hero"}`), &set))
	assert.True(t, set.Description.Set)
	assert.True(t, set.Description.Valid)
	assert.Equal(t, "hero", set.Description.Value)
}

func TestRegionSpecContentTemplatesNilVersusEmpty(t *testing.T) {
	var omitted RegionSpec
	require.NoError(t, json.Unmarshal([]byte(`{"title": "Main"}`), &omitted))
	assert.Nil(t, omitted.ContentTemplates)

	var cleared RegionSpec
	require.NoError(t, json.Unmarshal([]byte(`{"title": "Main", "content_templates": []}`), &cleared))
	require.NotNil(t, cleared.ContentTemplates)
	assert.Empty(t, cleared.ContentTemplates)
}

func TestLayoutEntryFor(t *testing.T) {
	entries := []LayoutEntry{
		{Title: "Landing Page"},
		{Title: "Post", FileName: "article.liquid"},
	}

	e, ok := LayoutEntryFor(entries, "landing_page.liquid")
	require.True(t, ok)
	assert.Equal(t, "Landing Page", e.Title)

	e, ok = LayoutEntryFor(entries, "article.liquid")
	require.True(t, ok)
	assert.Equal(t, "Post", e.Title)

	_, ok = LayoutEntryFor(entries, "missing.liquid")
	assert.False(t, ok)
}
