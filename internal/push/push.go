// Package push implements the one-pass synchronization of a local theme
// project to the Pagecraft service: theme version creation, asset
// upload/reuse, partials, navigation, content templates with their blocks
// and displays, layouts with region updates, and the final publish.
package push

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pagecraft/pagecraft-cli/internal/api"
	"github.com/pagecraft/pagecraft-cli/internal/theme"
)

// ErrAborted marks a push stopped by a reported failure. The Report holds
// the user-facing details; resources created before the abort are left on
// the server (the new version was never published, so it has no live
// effect).
var ErrAborted = errors.New("push aborted")

// Result summarizes a completed push.
type Result struct {
	ThemeID          string
	AssetsUploaded   int
	AssetsReused     int
	Partials         int
	Navigations      int
	ContentTemplates int
	Layouts          int
	RegionsUpdated   int
	Published        bool
}

// pusher owns all per-invocation state. Nothing is shared across
// invocations or goroutines; the whole pass is strictly sequential.
type pusher struct {
	gw      Gateway
	project *theme.Project
	report  *Report

	themeID string
	live    *api.Document     // snapshot fetched once, never updated mid-push
	refs    map[string]string // content-template var-name -> server id
	result  *Result
}

// Run executes one full push. Stage failures are reported through the
// Report and returned as ErrAborted; a failed OAuth refresh anywhere in the
// pass is collapsed into a single credentials message at this boundary.
func Run(ctx context.Context, gw Gateway, project *theme.Project, report *Report) (*Result, error) {
	p := &pusher{
		gw:      gw,
		project: project,
		report:  report,
		refs:    map[string]string{},
		result:  &Result{},
	}

	err := p.run(ctx)
	var re *api.RefreshError
	if errors.As(err, &re) {
		report.Errorf("Your credentials have expired, please log in again.")
		return nil, ErrAborted
	}
	if err != nil {
		return nil, err
	}
	return p.result, nil
}

func (p *pusher) run(ctx context.Context) error {
	if err := p.validate(); err != nil {
		return err
	}
	if err := p.fetchLiveTheme(ctx); err != nil {
		return err
	}
	if err := p.createThemeVersion(ctx); err != nil {
		return err
	}
	if err := p.uploadAssets(ctx); err != nil {
		return err
	}
	if err := p.uploadPartials(ctx); err != nil {
		return err
	}
	if err := p.uploadNavigation(ctx); err != nil {
		return err
	}
	if err := p.uploadContentTemplates(ctx); err != nil {
		return err
	}
	if err := p.uploadLayouts(ctx); err != nil {
		return err
	}
	return p.publish(ctx)
}

// call folds the two failure channels of a gateway call into one: transport
// errors and API error responses both abort the stage, while a refresh
// failure propagates untouched to the Run boundary.
func (p *pusher) call(prefix string, resp *api.Response, err error) error {
	if err != nil {
		if isRefreshError(err) {
			return err
		}
		p.report.Errorf("%s%v", prefix, err)
		return ErrAborted
	}
	if resp.IsError() {
		p.report.FromResponse(prefix, resp)
		return ErrAborted
	}
	return nil
}

func (p *pusher) validate() error {
	problems := p.project.Validate()
	for _, prob := range problems {
		if prob.Severity == theme.SeverityError {
			p.report.Errorf("%s", prob.Message)
		} else {
			p.report.Warnf("%s", prob.Message)
		}
	}
	if p.report.HasErrors() {
		return ErrAborted
	}
	return nil
}

// fetchLiveTheme grabs the currently published theme with everything
// side-loaded. The snapshot is the sole input to the fingerprint matcher; a
// site without a live theme, or a failed fetch, just means every asset
// uploads fresh. A refresh failure is fatal even here and propagates without
// the warning.
func (p *pusher) fetchLiveTheme(ctx context.Context) error {
	resp, err := p.gw.GetSite(ctx)
	if isRefreshError(err) {
		return err
	}
	if err != nil || resp.IsError() {
		p.report.Warnf("Could not fetch the current live theme; all assets will be uploaded.")
		return nil
	}

	doc, ok := resp.Document()
	if !ok {
		return nil
	}
	liveID := doc.Data.RelatedID("theme")
	if liveID == "" {
		return nil
	}

	resp, err = p.gw.GetTheme(ctx, liveID, api.ThemeIncludes)
	if isRefreshError(err) {
		return err
	}
	if err != nil || resp.IsError() {
		p.report.Warnf("Could not fetch the current live theme; all assets will be uploaded.")
		return nil
	}
	if doc, ok := resp.Document(); ok {
		p.live = doc
	}
	return nil
}

func isRefreshError(err error) bool {
	var re *api.RefreshError
	return errors.As(err, &re)
}

func (p *pusher) createThemeVersion(ctx context.Context) error {
	resp, err := p.gw.CreateThemeVersion(ctx, p.project.Settings.Name)
	if err := p.call("Theme: ", resp, err); err != nil {
		return err
	}

	doc, ok := resp.Document()
	if !ok || doc.Data.ID == "" {
		p.report.Errorf("Theme: unexpected response body")
		return ErrAborted
	}
	p.themeID = doc.Data.ID
	p.result.ThemeID = doc.Data.ID
	return nil
}

func (p *pusher) uploadAssets(ctx context.Context) error {
	files, err := p.project.AssetFiles()
	if err != nil {
		p.report.Errorf("Assets: %v", err)
		return ErrAborted
	}

	for _, rel := range files {
		prefix := fmt.Sprintf("Asset %s: ", rel)

		content, err := p.project.ReadFile(theme.AssetsDir + "/" + rel)
		if err != nil {
			p.report.Errorf("%s%v", prefix, err)
			return ErrAborted
		}

		if asset, ok := MatchExistingAsset(p.live, rel, content); ok {
			resp, err := p.gw.AssociateAsset(ctx, p.themeID, rel, asset.ID)
			if err := p.call(prefix, resp, err); err != nil {
				return err
			}
			p.result.AssetsReused++
			continue
		}

		if err := p.uploadFreshAsset(ctx, prefix, rel, content); err != nil {
			return err
		}
		p.result.AssetsUploaded++
	}
	return nil
}

// uploadFreshAsset runs the three-call upload chain: signature, storage
// POST, registration.
func (p *pusher) uploadFreshAsset(ctx context.Context, prefix, rel string, content []byte) error {
	contentType := mimetype.Detect(content).String()
	fileName := path.Base(rel)

	resp, err := p.gw.RequestAssetSignature(ctx, fileName, contentType)
	if err := p.call(prefix, resp, err); err != nil {
		return err
	}

	body, ok := resp.PlainJSON()
	if !ok {
		p.report.Errorf("%smalformed signature response", prefix)
		return ErrAborted
	}
	target, _ := body["url"].(string)
	fields := stringMap(body["fields"])
	if target == "" {
		p.report.Errorf("%smalformed signature response", prefix)
		return ErrAborted
	}

	resp, err = p.gw.UploadToStorage(ctx, target, fields, fileName, content, contentType)
	if err := p.call(prefix, resp, err); err != nil {
		return err
	}

	resp, err = p.gw.RegisterAssetUpload(ctx, p.themeID, api.AssetUploadParams{
		Key:         fields["key"],
		Path:        rel,
		ContentType: contentType,
	})
	return p.call(prefix, resp, err)
}

func (p *pusher) uploadPartials(ctx context.Context) error {
	files, err := p.project.PartialFiles()
	if err != nil {
		p.report.Errorf("Partials: %v", err)
		return ErrAborted
	}

	for _, f := range files {
		prefix := fmt.Sprintf("Partial %s: ", f)

		content, err := p.project.ReadFile(theme.PartialsDir + "/" + f)
		if err != nil {
			p.report.Errorf("%s%v", prefix, err)
			return ErrAborted
		}

		resp, err := p.gw.CreatePartial(ctx, p.themeID, api.PartialParams{
			Path:    f,
			Content: string(content),
		})
		if err := p.call(prefix, resp, err); err != nil {
			return err
		}
		p.result.Partials++
	}
	return nil
}

func (p *pusher) uploadNavigation(ctx context.Context) error {
	if !p.project.HasNavigationManifest() {
		return nil
	}
	entries, err := p.project.Navigations()
	if err != nil {
		p.report.Errorf("Navigation: %v", err)
		return ErrAborted
	}

	for _, e := range entries {
		prefix := fmt.Sprintf("Navigation '%s': ", e.Title)

		content, err := p.project.ReadFile(theme.NavigationDir + "/" + e.MarkupName())
		if err != nil {
			p.report.Errorf("%s%v", prefix, err)
			return ErrAborted
		}

		resp, err := p.gw.CreateNavigation(ctx, p.themeID, api.NavigationParams{
			Title:       e.Title,
			VarName:     e.VarName,
			Description: e.Description,
			Content:     string(content),
		})
		if err := p.call(prefix, resp, err); err != nil {
			return err
		}
		p.result.Navigations++
	}
	return nil
}

func (p *pusher) uploadContentTemplates(ctx context.Context) error {
	if !p.project.HasContentTemplateManifest() {
		return nil
	}
	entries, err := p.project.ContentTemplates()
	if err != nil {
		p.report.Errorf("Content templates: %v", err)
		return ErrAborted
	}

	for _, e := range entries {
		prefix := fmt.Sprintf("Content template '%s': ", e.Title)

		resp, err := p.gw.CreateContentTemplate(ctx, p.themeID, api.ContentTemplateParams{
			Title:       e.Title,
			VarName:     e.VarName,
			FolderName:  e.FolderName,
			Description: e.Description,
			Unique:      e.Unique,
			IconTitle:   e.IconTitle,
		})
		if err := p.call(prefix, resp, err); err != nil {
			return err
		}

		doc, ok := resp.Document()
		if !ok || doc.Data.ID == "" {
			p.report.Errorf("%sunexpected response body", prefix)
			return ErrAborted
		}
		templateID := doc.Data.ID

		// The server-assigned canonical var-name is what regions
		// reference later; keep the local name as an alias.
		if canonical := doc.Data.Attr("var-name"); canonical != "" {
			p.refs[canonical] = templateID
		}
		p.refs[e.Name()] = templateID

		if err := p.createBlocks(ctx, templateID, e); err != nil {
			return err
		}
		if err := p.createDisplays(ctx, templateID, e); err != nil {
			return err
		}
		p.result.ContentTemplates++
	}
	return nil
}

func (p *pusher) createBlocks(ctx context.Context, templateID string, e theme.ContentTemplateEntry) error {
	for i, b := range e.Blocks {
		prefix := fmt.Sprintf("Block in position %d: ", i)

		resp, err := p.gw.CreateBlock(ctx, templateID, api.BlockParams{
			Title:       b.Title,
			DataType:    b.DataType,
			Position:    i,
			VarName:     b.VarName,
			Description: b.Description,
			Required:    b.Required,
			Inline:      b.Inline,
		})
		if err := p.call(prefix, resp, err); err != nil {
			return err
		}
	}
	return nil
}

func (p *pusher) createDisplays(ctx context.Context, templateID string, e theme.ContentTemplateEntry) error {
	for i, d := range e.Displays {
		prefix := fmt.Sprintf("Display in position %d: ", i)

		markup := theme.ContentTemplatesDir + "/" + e.Folder() + "/" + d.MarkupName()
		content, err := p.project.ReadFile(markup)
		if err != nil {
			p.report.Errorf("%s%v", prefix, err)
			return ErrAborted
		}

		resp, err := p.gw.CreateDisplay(ctx, templateID, api.DisplayParams{
			Title:       d.Title,
			Content:     string(content),
			Position:    i,
			Description: d.Description,
			Default:     d.Default,
		})
		if err := p.call(prefix, resp, err); err != nil {
			return err
		}
	}
	return nil
}

func (p *pusher) uploadLayouts(ctx context.Context) error {
	files, err := p.project.LayoutFiles()
	if err != nil {
		p.report.Errorf("Layouts: %v", err)
		return ErrAborted
	}
	if len(files) == 0 {
		return nil
	}

	entries, err := p.project.Layouts()
	if err != nil {
		p.report.Errorf("Layouts: %v", err)
		return ErrAborted
	}

	for i, f := range files {
		entry, ok := theme.LayoutEntryFor(entries, f)
		if !ok {
			// Already surfaced as a validation warning.
			continue
		}

		prefix := fmt.Sprintf("Layout in position %d: ", i)

		content, err := p.project.ReadFile(theme.LayoutsDir + "/" + f)
		if err != nil {
			p.report.Errorf("%s%v", prefix, err)
			return ErrAborted
		}

		resp, err := p.gw.CreateLayout(ctx, p.themeID, api.LayoutParams{
			Title:       entry.Title,
			Description: entry.Description,
			Unique:      entry.Unique,
			Content:     string(content),
		})
		if err := p.call(prefix, resp, err); err != nil {
			return err
		}

		doc, ok := resp.Document()
		if !ok || doc.Data.ID == "" {
			p.report.Errorf("%sunexpected response body", prefix)
			return ErrAborted
		}

		if err := p.updateRegions(ctx, doc, entry); err != nil {
			return err
		}
		p.result.Layouts++
	}
	return nil
}

// updateRegions runs the second pass over a just-created layout: match each
// server-derived region to its manifest spec by var-name, compute a minimal
// diff, and patch only when something differs. Server regions without a
// spec are left at their defaults.
func (p *pusher) updateRegions(ctx context.Context, doc *api.Document, entry theme.LayoutEntry) error {
	layoutID := doc.Data.ID

	for _, region := range doc.IncludedOfType("regions") {
		spec, ok := regionSpecFor(entry.Regions, region.Attr("var-name"))
		if !ok {
			continue
		}

		title := spec.Title
		if title == "" {
			title = region.Attr("title")
		}
		prefix := fmt.Sprintf("Region `%s`: ", title)

		update := p.regionDiff(prefix, spec, region)
		if update.Empty() {
			continue
		}

		resp, err := p.gw.UpdateRegion(ctx, p.themeID, layoutID, region.ID, update)
		if err := p.call(prefix, resp, err); err != nil {
			return err
		}
		p.result.RegionsUpdated++
	}
	return nil
}

// regionDiff includes only the attributes whose declared value differs from
// the server's current one. An explicit null description clears the server
// value; an absent key leaves it alone.
func (p *pusher) regionDiff(prefix string, spec theme.RegionSpec, region api.Resource) api.RegionUpdate {
	attrs := map[string]any{}

	if spec.Title != "" && spec.Title != region.Attr("title") {
		attrs["title"] = spec.Title
	}

	if spec.Description.Set {
		switch {
		case !spec.Description.Valid:
			if region.Attr("description") != "" {
				attrs["description"] = nil
			}
		case spec.Description.Value != region.Attr("description"):
			attrs["description"] = spec.Description.Value
		}
	}

	if spec.MaxContentCount != nil {
		current, _ := region.AttrInt("max-num-content")
		if *spec.MaxContentCount != current {
			attrs["max-num-content"] = *spec.MaxContentCount
		}
	}

	update := api.RegionUpdate{Attributes: attrs}

	if spec.ContentTemplates != nil {
		ids := make([]string, 0, len(spec.ContentTemplates))
		for _, name := range spec.ContentTemplates {
			id, ok := p.refs[name]
			if !ok {
				p.report.Warnf("%sunknown content template '%s'", prefix, name)
				continue
			}
			ids = append(ids, id)
		}
		if !sameIDSet(ids, region.RelatedIDs("content-templates")) {
			update.ContentTemplateIDs = ids
			update.SetContentTemplates = true
		}
	}

	return update
}

func (p *pusher) publish(ctx context.Context) error {
	resp, err := p.gw.PublishTheme(ctx, p.themeID)
	if err := p.call("Publish: ", resp, err); err != nil {
		return err
	}
	p.result.Published = true
	return nil
}

func regionSpecFor(specs []theme.RegionSpec, varName string) (theme.RegionSpec, bool) {
	for _, s := range specs {
		if s.Name() == varName {
			return s, true
		}
	}
	return theme.RegionSpec{}, false
}

func sameIDSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

func stringMap(v any) map[string]string {
	out := map[string]string{}
	m, _ := v.(map[string]any)
	for k, val := range m {
		if s, ok := val.(string); ok {
			out[k] = s
		}
	}
	return out
}
