package theme

import (
	"fmt"
	"slices"
)

// Severity grades a validation problem.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Problem is one structural validation finding.
type Problem struct {
	Severity Severity
	Message  string
}

// Validate runs the full structural validation of the project. Any
// error-severity problem must prevent a push from starting, before any
// network activity.
func (p *Project) Validate() []Problem {
	var problems []Problem
	errorf := func(format string, args ...any) {
		problems = append(problems, Problem{SeverityError, fmt.Sprintf(format, args...)})
	}
	warnf := func(format string, args ...any) {
		problems = append(problems, Problem{SeverityWarning, fmt.Sprintf(format, args...)})
	}

	if p.Settings.Name == "" {
		errorf("%s: name is required", MarkerFile)
	}
	if p.Settings.Endpoint == "" {
		errorf("%s: endpoint is required", MarkerFile)
	}

	if p.HasNavigationManifest() {
		navs, err := p.Navigations()
		if err != nil {
			errorf("%v", err)
		} else {
			p.validateNavigations(navs, errorf)
		}
	}

	if p.HasContentTemplateManifest() {
		templates, err := p.ContentTemplates()
		if err != nil {
			errorf("%v", err)
		} else {
			p.validateContentTemplates(templates, errorf)
		}
	}

	layoutFiles, err := p.LayoutFiles()
	if err != nil {
		errorf("%v", err)
	} else if len(layoutFiles) > 0 {
		entries, err := p.Layouts()
		if err != nil {
			errorf("%v", err)
		} else {
			p.validateLayouts(entries, layoutFiles, errorf, warnf)
		}
	}

	return problems
}

func (p *Project) validateNavigations(entries []NavigationEntry, errorf func(string, ...any)) {
	seen := map[string]bool{}
	for _, e := range entries {
		if e.Title == "" {
			errorf("navigation: title is required")
			continue
		}
		name := e.VarName
		if name == "" {
			name = DeriveName(e.Title)
		}
		if seen[name] {
			errorf("navigation '%s': duplicate var_name '%s'", e.Title, name)
		}
		seen[name] = true

		markup := NavigationDir + "/" + e.MarkupName()
		if !p.FileExists(markup) {
			errorf("navigation '%s': markup file %s not found", e.Title, markup)
		}
	}
}

func (p *Project) validateContentTemplates(entries []ContentTemplateEntry, errorf func(string, ...any)) {
	seen := map[string]bool{}
	for _, e := range entries {
		if e.Title == "" {
			errorf("content template: title is required")
			continue
		}
		if seen[e.Name()] {
			errorf("content template '%s': duplicate var_name '%s'", e.Title, e.Name())
		}
		seen[e.Name()] = true

		for i, b := range e.Blocks {
			if b.Title == "" {
				errorf("content template '%s': block in position %d: title is required", e.Title, i)
			}
			if !slices.Contains(BlockDataTypes, b.DataType) {
				errorf("content template '%s': block in position %d: unknown data_type '%s'", e.Title, i, b.DataType)
			}
		}

		defaults := 0
		for i, d := range e.Displays {
			if d.Title == "" {
				errorf("content template '%s': display in position %d: title is required", e.Title, i)
			}
			if d.Default {
				defaults++
			}
			markup := ContentTemplatesDir + "/" + e.Folder() + "/" + d.MarkupName()
			if !p.FileExists(markup) {
				errorf("content template '%s': display in position %d: markup file %s not found", e.Title, i, markup)
			}
		}
		if defaults > 1 {
			errorf("content template '%s': at most one display may be default, found %d", e.Title, defaults)
		}
	}
}

func (p *Project) validateLayouts(entries []LayoutEntry, files []string, errorf, warnf func(string, ...any)) {
	seen := map[string]bool{}
	for _, e := range entries {
		if e.Title == "" {
			errorf("layout: title is required")
			continue
		}
		if seen[e.MarkupName()] {
			errorf("layout '%s': duplicate markup file %s", e.Title, e.MarkupName())
		}
		seen[e.MarkupName()] = true

		if !p.FileExists(LayoutsDir + "/" + e.MarkupName()) {
			errorf("layout '%s': markup file %s/%s not found", e.Title, LayoutsDir, e.MarkupName())
		}
	}

	for _, f := range files {
		if _, ok := LayoutEntryFor(entries, f); !ok {
			warnf("layout file %s/%s has no manifest entry and will be skipped", LayoutsDir, f)
		}
	}
}
