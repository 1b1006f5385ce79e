package theme

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// MarkerFile marks the root of a theme project.
	MarkerFile = "theme.json"

	AssetsDir           = "assets"
	PartialsDir         = "partials"
	NavigationDir       = "navigation"
	ContentTemplatesDir = "content_templates"
	LayoutsDir          = "layouts"

	NavigationManifest      = "navigation.json"
	ContentTemplateManifest = "content_templates.json"
	LayoutManifest          = "layouts.json"
)

// Project is a local theme project rooted at the directory holding
// theme.json.
type Project struct {
	Root     string
	Settings Settings
}

// Find walks up from the working directory to the nearest theme project
// root, so the CLI works from any subdirectory.
func Find() (*Project, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, MarkerFile)); err == nil {
			return Open(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, fmt.Errorf("not a theme project (no %s in this or any parent directory)", MarkerFile)
		}
		dir = parent
	}
}

// Open loads the project rooted at dir.
func Open(dir string) (*Project, error) {
	data, err := os.ReadFile(filepath.Join(dir, MarkerFile))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", MarkerFile, err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", MarkerFile, err)
	}

	return &Project{Root: dir, Settings: settings}, nil
}

// ReadFile reads a file by its project-relative path.
func (p *Project) ReadFile(rel string) ([]byte, error) {
	return os.ReadFile(filepath.Join(p.Root, filepath.FromSlash(rel)))
}

// FileExists reports whether a project-relative file exists.
func (p *Project) FileExists(rel string) bool {
	info, err := os.Stat(filepath.Join(p.Root, filepath.FromSlash(rel)))
	return err == nil && !info.IsDir()
}

// AssetFiles enumerates every regular file under assets/, as slash-separated
// paths relative to assets/, in sorted order.
func (p *Project) AssetFiles() ([]string, error) {
	root := filepath.Join(p.Root, AssetsDir)
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil, nil
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", AssetsDir, err)
	}

	sort.Strings(files)
	return files, nil
}

// PartialFiles enumerates every regular file under partials/, relative to
// partials/, sorted.
func (p *Project) PartialFiles() ([]string, error) {
	return p.listDir(PartialsDir, "")
}

// LayoutFiles enumerates markup files under layouts/, excluding the
// manifest, sorted.
func (p *Project) LayoutFiles() ([]string, error) {
	return p.listDir(LayoutsDir, LayoutManifest)
}

func (p *Project) listDir(dir, exclude string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(p.Root, dir))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || e.Name() == exclude {
			continue
		}
		files = append(files, e.Name())
	}

	sort.Strings(files)
	return files, nil
}

// HasNavigationManifest reports whether navigation/navigation.json exists.
func (p *Project) HasNavigationManifest() bool {
	return p.FileExists(NavigationDir + "/" + NavigationManifest)
}

// HasContentTemplateManifest reports whether
// content_templates/content_templates.json exists.
func (p *Project) HasContentTemplateManifest() bool {
	return p.FileExists(ContentTemplatesDir + "/" + ContentTemplateManifest)
}

// Navigations parses the navigation manifest.
func (p *Project) Navigations() ([]NavigationEntry, error) {
	var entries []NavigationEntry
	if err := p.readManifest(NavigationDir+"/"+NavigationManifest, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ContentTemplates parses the content-template manifest.
func (p *Project) ContentTemplates() ([]ContentTemplateEntry, error) {
	var entries []ContentTemplateEntry
	if err := p.readManifest(ContentTemplatesDir+"/"+ContentTemplateManifest, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Layouts parses the layout manifest.
func (p *Project) Layouts() ([]LayoutEntry, error) {
	var entries []LayoutEntry
	if err := p.readManifest(LayoutsDir+"/"+LayoutManifest, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// LayoutEntryFor matches a markup file under layouts/ to its manifest entry
// by file_name or derived-title equality.
func LayoutEntryFor(entries []LayoutEntry, fileName string) (LayoutEntry, bool) {
	for _, e := range entries {
		if e.MarkupName() == fileName {
			return e, true
		}
	}
	base := strings.TrimSuffix(fileName, MarkupExt)
	for _, e := range entries {
		if DeriveName(e.Title) == base {
			return e, true
		}
	}
	return LayoutEntry{}, false
}

func (p *Project) readManifest(rel string, out any) error {
	data, err := p.ReadFile(rel)
	if err != nil {
		return fmt.Errorf("read %s: %w", rel, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", rel, err)
	}
	return nil
}
