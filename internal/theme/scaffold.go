package theme

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

var defaultLayoutMarkup = []byte(`<!doctype html>
<html>
  <head>
    <title>{{ site.name }}</title>
  </head>
  <body>
    {% region "main" %}
  </body>
</html>
`)

// Scaffold creates a new theme project directory with the standard layout
// and starter manifests. A failed scaffold removes only what it created;
// files already present in an existing target directory are left untouched.
func Scaffold(dir, name, endpoint string) (*Project, error) {
	if _, err := os.Stat(filepath.Join(dir, MarkerFile)); err == nil {
		return nil, fmt.Errorf("theme project already exists at %s", dir)
	}

	_, err := os.Stat(dir)
	dirExisted := err == nil

	var created []string
	cleanup := func() {
		if !dirExisted {
			os.RemoveAll(dir)
			return
		}
		// Reverse order removes files before their directories. Remove
		// leaves non-empty directories alone.
		for i := len(created) - 1; i >= 0; i-- {
			os.Remove(created[i])
		}
	}

	for _, sub := range []string{AssetsDir, PartialsDir, NavigationDir, ContentTemplatesDir, LayoutsDir} {
		path := filepath.Join(dir, sub)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			created = append(created, path)
		}
		if err := os.MkdirAll(path, 0755); err != nil {
			cleanup()
			return nil, fmt.Errorf("create %s: %w", sub, err)
		}
	}

	p := &Project{Root: dir, Settings: Settings{Name: name, Endpoint: endpoint}}

	created = append(created, filepath.Join(dir, MarkerFile))
	if err := writeJSON(filepath.Join(dir, MarkerFile), p.Settings); err != nil {
		cleanup()
		return nil, err
	}

	starters := map[string]any{
		filepath.Join(dir, NavigationDir, NavigationManifest):            []NavigationEntry{},
		filepath.Join(dir, ContentTemplatesDir, ContentTemplateManifest): []ContentTemplateEntry{},
		filepath.Join(dir, LayoutsDir, LayoutManifest):                   []LayoutEntry{{Title: "Default"}},
	}
	for path, v := range starters {
		created = append(created, path)
		if err := writeJSON(path, v); err != nil {
			cleanup()
			return nil, err
		}
	}

	layout := filepath.Join(dir, LayoutsDir, "default"+MarkupExt)
	created = append(created, layout)
	if err := os.WriteFile(layout, defaultLayoutMarkup, 0644); err != nil {
		cleanup()
		return nil, fmt.Errorf("write default layout: %w", err)
	}

	return p, nil
}

// GenerateContentTemplate appends a content-template entry to the manifest
// and creates its folder with one default display markup file.
func (p *Project) GenerateContentTemplate(title string) error {
	entries, err := p.ContentTemplates()
	if err != nil {
		return err
	}

	entry := ContentTemplateEntry{
		Title: title,
		Blocks: []BlockSpec{
			{Title: "Body", DataType: "text"},
		},
		Displays: []DisplaySpec{
			{Title: "Default", Default: true},
		},
	}
	for _, e := range entries {
		if e.Name() == entry.Name() {
			return fmt.Errorf("content template '%s' already exists", title)
		}
	}
	entries = append(entries, entry)

	folder := filepath.Join(p.Root, ContentTemplatesDir, entry.Folder())
	if err := os.MkdirAll(folder, 0755); err != nil {
		return fmt.Errorf("create template folder: %w", err)
	}
	markup := filepath.Join(folder, entry.Displays[0].MarkupName())
	if err := os.WriteFile(markup, []byte("{{ content.body }}\n"), 0644); err != nil {
		return fmt.Errorf("write display markup: %w", err)
	}

	return writeJSON(filepath.Join(p.Root, ContentTemplatesDir, ContentTemplateManifest), entries)
}

// GenerateLayout appends a layout entry to the manifest and creates its
// markup file.
func (p *Project) GenerateLayout(title string) error {
	var entries []LayoutEntry
	if p.FileExists(LayoutsDir + "/" + LayoutManifest) {
		var err error
		if entries, err = p.Layouts(); err != nil {
			return err
		}
	}

	entry := LayoutEntry{Title: title}
	for _, e := range entries {
		if e.MarkupName() == entry.MarkupName() {
			return fmt.Errorf("layout '%s' already exists", title)
		}
	}
	entries = append(entries, entry)

	markup := filepath.Join(p.Root, LayoutsDir, entry.MarkupName())
	if err := os.WriteFile(markup, defaultLayoutMarkup, 0644); err != nil {
		return fmt.Errorf("write layout markup: %w", err)
	}

	return writeJSON(filepath.Join(p.Root, LayoutsDir, LayoutManifest), entries)
}

// GenerateNavigation appends a navigation entry to the manifest and creates
// its markup file.
func (p *Project) GenerateNavigation(title string) error {
	var entries []NavigationEntry
	if p.HasNavigationManifest() {
		var err error
		if entries, err = p.Navigations(); err != nil {
			return err
		}
	}

	entry := NavigationEntry{Title: title}
	for _, e := range entries {
		if e.MarkupName() == entry.MarkupName() {
			return fmt.Errorf("navigation '%s' already exists", title)
		}
	}
	entries = append(entries, entry)

	if err := os.MkdirAll(filepath.Join(p.Root, NavigationDir), 0755); err != nil {
		return fmt.Errorf("create navigation directory: %w", err)
	}
	markup := filepath.Join(p.Root, NavigationDir, entry.MarkupName())
	content := "<ul>\n{% for item in navigation.items %}  <li>{{ item.title }}</li>\n{% endfor %}</ul>\n"
	if err := os.WriteFile(markup, []byte(content), 0644); err != nil {
		return fmt.Errorf("write navigation markup: %w", err)
	}

	return writeJSON(filepath.Join(p.Root, NavigationDir, NavigationManifest), entries)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
