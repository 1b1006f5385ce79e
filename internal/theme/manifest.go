// Package theme reads and validates a local theme project: its directory
// layout, JSON manifests, and the naming conventions tying manifest entries
// to markup files.
package theme

import (
	"encoding/json"
	"strings"
)

// MarkupExt is the extension of all markup files in a theme project.
const MarkupExt = ".liquid"

// NavigationSuffix is the conventional suffix of navigation markup files.
const NavigationSuffix = "_navigation" + MarkupExt

// BlockDataTypes is the closed set of block field types the service accepts.
var BlockDataTypes = []string{"text", "image", "video", "audio", "file", "link"}

// Settings is the theme.json project marker.
type Settings struct {
	Name     string `json:"name"`
	Endpoint string `json:"endpoint"`
}

// NavigationEntry is one declared navigation in navigation/navigation.json.
type NavigationEntry struct {
	Title       string `json:"title"`
	VarName     string `json:"var_name"`
	FileName    string `json:"file_name"`
	Description string `json:"description"`
}

// MarkupName resolves the entry's markup file name: explicit file_name, else
// var_name, else derived from the title, with the navigation suffix enforced.
func (e NavigationEntry) MarkupName() string {
	name := e.FileName
	if name == "" {
		name = e.VarName
	}
	if name == "" {
		name = DeriveName(e.Title)
	}
	if !strings.HasSuffix(name, NavigationSuffix) {
		name = strings.TrimSuffix(name, MarkupExt) + NavigationSuffix
	}
	return name
}

// BlockSpec is one typed field of a content template. Its position is the
// manifest array index; there is no reordering after creation.
type BlockSpec struct {
	Title       string `json:"title"`
	DataType    string `json:"data_type"`
	VarName     string `json:"var_name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Inline      bool   `json:"inline"`
}

// DisplaySpec is one render variant of a content template.
type DisplaySpec struct {
	Title       string `json:"title"`
	FileName    string `json:"file_name"`
	Description string `json:"description"`
	Default     bool   `json:"default"`
}

// MarkupName resolves the display's markup file name within the template
// folder.
func (d DisplaySpec) MarkupName() string {
	name := d.FileName
	if name == "" {
		name = DeriveName(d.Title)
	}
	if !strings.HasSuffix(name, MarkupExt) {
		name += MarkupExt
	}
	return name
}

// ContentTemplateEntry is one declared content template in
// content_templates/content_templates.json.
type ContentTemplateEntry struct {
	Title       string        `json:"title"`
	VarName     string        `json:"var_name"`
	FolderName  string        `json:"folder_name"`
	Description string        `json:"description"`
	Unique      bool          `json:"unique"`
	IconTitle   string        `json:"icon_title"`
	Blocks      []BlockSpec   `json:"blocks"`
	Displays    []DisplaySpec `json:"displays"`
}

// Name returns the template's local identifier: explicit var_name or the
// derived title.
func (e ContentTemplateEntry) Name() string {
	if e.VarName != "" {
		return e.VarName
	}
	return DeriveName(e.Title)
}

// Folder resolves the directory under content_templates/ holding this
// template's display markup.
func (e ContentTemplateEntry) Folder() string {
	if e.FolderName != "" {
		return e.FolderName
	}
	return e.Name()
}

// RegionSpec declares an update to one server-derived region of a layout.
// Regions are never created by the client; a spec with no matching server
// region is skipped silently. ContentTemplates distinguishes nil (leave the
// association alone) from an empty list (clear it).
type RegionSpec struct {
	Title            string         `json:"title"`
	VarName          string         `json:"var_name"`
	Description      NullableString `json:"description"`
	MaxContentCount  *int           `json:"max_content_count"`
	ContentTemplates []string       `json:"content_templates"`
}

// Name returns the var-name used to match against server-returned regions.
func (r RegionSpec) Name() string {
	if r.VarName != "" {
		return r.VarName
	}
	return DeriveName(r.Title)
}

// LayoutEntry is one declared layout in layouts/layouts.json.
type LayoutEntry struct {
	Title       string       `json:"title"`
	FileName    string       `json:"file_name"`
	Description string       `json:"description"`
	Unique      bool         `json:"unique"`
	Regions     []RegionSpec `json:"regions"`
}

// MarkupName resolves the layout's markup file name under layouts/.
func (e LayoutEntry) MarkupName() string {
	name := e.FileName
	if name == "" {
		name = DeriveName(e.Title)
	}
	if !strings.HasSuffix(name, MarkupExt) {
		name += MarkupExt
	}
	return name
}

// NullableString records whether a manifest key was present and whether it
// was an explicit null. For region descriptions an explicit null clears the
// server value, while an absent key leaves it untouched.
type NullableString struct {
	Set   bool
	Valid bool
	Value string
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NullableString) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		return nil
	}
	if err := json.Unmarshal(b, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n NullableString) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// DeriveName turns a human title into the service's var-name convention:
// lowercase with every run of non-alphanumeric characters collapsed to one
// underscore.
func DeriveName(title string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(title) {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !alnum {
			pendingSep = b.Len() > 0
			continue
		}
		if pendingSep {
			b.WriteByte('_')
			pendingSep = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
