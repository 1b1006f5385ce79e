package push

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pagecraft/pagecraft-cli/internal/api"
	"github.com/pagecraft/pagecraft-cli/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockGateway implements Gateway with call tracking for orchestrator tests.
type mockGateway struct {
	calls []string

	// Fail the named op with this response (API error) or error
	// (transport/refresh failure).
	failOp   string
	failResp *api.Response
	failErr  error

	siteLive     bool   // site has a published theme
	liveIncluded string // raw JSON included list for GetTheme

	layoutIncluded string // raw JSON included list for CreateLayout

	nextTemplate int

	signatures    []string // file names signature was requested for
	storageFiles  []string
	registered    []api.AssetUploadParams
	associated    []string // "path=assetID"
	partials      []api.PartialParams
	navigations   []api.NavigationParams
	templates     []api.ContentTemplateParams
	blocks        []api.BlockParams
	displays      []api.DisplayParams
	layouts       []api.LayoutParams
	regionUpdates []api.RegionUpdate
	published     []string
}

func (m *mockGateway) intercept(op string) (*api.Response, error, bool) {
	m.calls = append(m.calls, op)
	if m.failOp != op {
		return nil, nil, false
	}
	if m.failErr != nil {
		return nil, m.failErr, true
	}
	return m.failResp, nil, true
}

func jsonapiResponse(status int, body string) *api.Response {
	return api.NewResponse(status, api.MediaType, []byte(body))
}

func created(id, typ string) *api.Response {
	return jsonapiResponse(201, fmt.Sprintf(`{"data": {"id": "%s", "type": "%s"}}`, id, typ))
}

func (m *mockGateway) GetSite(_ context.Context) (*api.Response, error) {
	if resp, err, ok := m.intercept("GetSite"); ok {
		return resp, err
	}
	if !m.siteLive {
		return jsonapiResponse(200, `{"data": {"id": "site-1", "type": "sites"}}`), nil
	}
	return jsonapiResponse(200, `{"data": {"id": "site-1", "type": "sites",
		"relationships": {"theme": {"data": {"id": "theme-live", "type": "themes"}}}}}`), nil
}

func (m *mockGateway) GetTheme(_ context.Context, id string, _ []string) (*api.Response, error) {
	if resp, err, ok := m.intercept("GetTheme"); ok {
		return resp, err
	}
	included := m.liveIncluded
	if included == "" {
		included = "[]"
	}
	body := fmt.Sprintf(`{"data": {"id": "%s", "type": "themes"}, "included": %s}`, id, included)
	return jsonapiResponse(200, body), nil
}

func (m *mockGateway) CreateThemeVersion(_ context.Context, _ string) (*api.Response, error) {
	if resp, err, ok := m.intercept("CreateThemeVersion"); ok {
		return resp, err
	}
	return created("theme-new", "themes"), nil
}

func (m *mockGateway) RequestAssetSignature(_ context.Context, fileName, _ string) (*api.Response, error) {
	if resp, err, ok := m.intercept("RequestAssetSignature"); ok {
		return resp, err
	}
	m.signatures = append(m.signatures, fileName)
	body := `{"url": "https://storage.example/up", "fields": {"key": "uploads/k1", "policy": "p"}}`
	return api.NewResponse(200, "application/json", []byte(body)), nil
}

func (m *mockGateway) UploadToStorage(_ context.Context, _ string, _ map[string]string, fileName string, _ []byte, _ string) (*api.Response, error) {
	if resp, err, ok := m.intercept("UploadToStorage"); ok {
		return resp, err
	}
	m.storageFiles = append(m.storageFiles, fileName)
	return api.NewResponse(204, "", nil), nil
}

func (m *mockGateway) RegisterAssetUpload(_ context.Context, _ string, params api.AssetUploadParams) (*api.Response, error) {
	if resp, err, ok := m.intercept("RegisterAssetUpload"); ok {
		return resp, err
	}
	m.registered = append(m.registered, params)
	return created("ta-new", "theme-assets"), nil
}

func (m *mockGateway) AssociateAsset(_ context.Context, _ string, path, assetID string) (*api.Response, error) {
	if resp, err, ok := m.intercept("AssociateAsset"); ok {
		return resp, err
	}
	m.associated = append(m.associated, path+"="+assetID)
	return created("ta-reused", "theme-assets"), nil
}

func (m *mockGateway) CreatePartial(_ context.Context, _ string, params api.PartialParams) (*api.Response, error) {
	if resp, err, ok := m.intercept("CreatePartial"); ok {
		return resp, err
	}
	m.partials = append(m.partials, params)
	return created("p-1", "partials"), nil
}

func (m *mockGateway) CreateNavigation(_ context.Context, _ string, params api.NavigationParams) (*api.Response, error) {
	if resp, err, ok := m.intercept("CreateNavigation"); ok {
		return resp, err
	}
	m.navigations = append(m.navigations, params)
	return created("n-1", "navigations"), nil
}

func (m *mockGateway) CreateContentTemplate(_ context.Context, _ string, params api.ContentTemplateParams) (*api.Response, error) {
	if resp, err, ok := m.intercept("CreateContentTemplate"); ok {
		return resp, err
	}
	m.templates = append(m.templates, params)
	m.nextTemplate++
	varName := params.VarName
	if varName == "" {
		varName = theme.DeriveName(params.Title)
	}
	body := fmt.Sprintf(`{"data": {"id": "ct-%d", "type": "content-templates",
		"attributes": {"var-name": "%s"}}}`, m.nextTemplate, varName)
	return jsonapiResponse(201, body), nil
}

func (m *mockGateway) CreateBlock(_ context.Context, _ string, params api.BlockParams) (*api.Response, error) {
	if resp, err, ok := m.intercept("CreateBlock"); ok {
		return resp, err
	}
	m.blocks = append(m.blocks, params)
	return created("b-1", "blocks"), nil
}

func (m *mockGateway) CreateDisplay(_ context.Context, _ string, params api.DisplayParams) (*api.Response, error) {
	if resp, err, ok := m.intercept("CreateDisplay"); ok {
		return resp, err
	}
	m.displays = append(m.displays, params)
	return created("d-1", "displays"), nil
}

func (m *mockGateway) CreateLayout(_ context.Context, _ string, params api.LayoutParams) (*api.Response, error) {
	if resp, err, ok := m.intercept("CreateLayout"); ok {
		return resp, err
	}
	m.layouts = append(m.layouts, params)
	included := m.layoutIncluded
	if included == "" {
		included = "[]"
	}
	body := fmt.Sprintf(`{"data": {"id": "l-1", "type": "layouts"}, "included": %s}`, included)
	return jsonapiResponse(201, body), nil
}

func (m *mockGateway) UpdateRegion(_ context.Context, _, _, _ string, update api.RegionUpdate) (*api.Response, error) {
	if resp, err, ok := m.intercept("UpdateRegion"); ok {
		return resp, err
	}
	m.regionUpdates = append(m.regionUpdates, update)
	return jsonapiResponse(200, `{"data": {"id": "r-1", "type": "regions"}}`), nil
}

func (m *mockGateway) PublishTheme(_ context.Context, themeID string) (*api.Response, error) {
	if resp, err, ok := m.intercept("PublishTheme"); ok {
		return resp, err
	}
	m.published = append(m.published, themeID)
	return jsonapiResponse(200, `{"data": {"id": "site-1", "type": "sites"}}`), nil
}

// writeProject lays out a theme project in a temp dir.
func writeProject(t *testing.T, files map[string]string) *theme.Project {
	t.Helper()
	dir := t.TempDir()

	if _, ok := files[theme.MarkerFile]; !ok {
		files[theme.MarkerFile] = `{"name": "Test", "endpoint": "https://example.test"}`
	}
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	p, err := theme.Open(dir)
	require.NoError(t, err)
	return p
}

func reportTexts(r *Report) []string {
	var out []string
	for _, m := range r.Messages() {
		out = append(out, m.Text)
	}
	return out
}

func TestPushNewAssetUploadChain(t *testing.T) {
	p := writeProject(t, map[string]string{
		"assets/logo.png": "fresh logo bytes",
	})
	gw := &mockGateway{}
	report := &Report{}

	result, err := Run(context.Background(), gw, p, report)
	require.NoError(t, err)

	// Signature, storage POST, registration in that order, no reuse.
	assert.Equal(t, []string{
		"GetSite",
		"CreateThemeVersion",
		"RequestAssetSignature",
		"UploadToStorage",
		"RegisterAssetUpload",
		"PublishTheme",
	}, gw.calls)
	assert.Empty(t, gw.associated)

	require.Len(t, gw.registered, 1)
	assert.Equal(t, "uploads/k1", gw.registered[0].Key)
	assert.Equal(t, "logo.png", gw.registered[0].Path)
	assert.NotEmpty(t, gw.registered[0].ContentType)

	assert.Equal(t, 1, result.AssetsUploaded)
	assert.Zero(t, result.AssetsReused)
	assert.True(t, result.Published)
	assert.Equal(t, "theme-new", result.ThemeID)
}

func TestPushReusesByteIdenticalAsset(t *testing.T) {
	content := "logo bytes"
	p := writeProject(t, map[string]string{
		"assets/logo.png": content,
	})
	gw := &mockGateway{
		siteLive: true,
		liveIncluded: fmt.Sprintf(`[
			{"id": "ta-1", "type": "theme-assets",
			 "attributes": {"path": "logo.png"},
			 "relationships": {"asset": {"data": {"id": "a-1", "type": "assets"}}}},
			{"id": "a-1", "type": "assets", "attributes": {"fingerprint": "%s"}}
		]`, Fingerprint([]byte(content))),
	}
	report := &Report{}

	result, err := Run(context.Background(), gw, p, report)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"GetSite",
		"GetTheme",
		"CreateThemeVersion",
		"AssociateAsset",
		"PublishTheme",
	}, gw.calls)
	assert.Equal(t, []string{"logo.png=a-1"}, gw.associated)
	assert.Equal(t, 1, result.AssetsReused)
	assert.Zero(t, result.AssetsUploaded)
}

func TestPushStageOrder(t *testing.T) {
	p := writeProject(t, map[string]string{
		"assets/site.css":        "body {}",
		"partials/header.liquid": "<header></header>",

		"navigation/navigation.json":        `[{"title": "Main"}]`,
		"navigation/main_navigation.liquid": "<ul></ul>",

		"content_templates/content_templates.json": `[
			{"title": "Post",
			 "blocks": [{"title": "Body", "data_type": "text"}],
			 "displays": [{"title": "Default", "default": true}]}
		]`,
		"content_templates/post/default.liquid": "{{ content.body }}",

		"layouts/layouts.json":   `[{"title": "Default"}]`,
		"layouts/default.liquid": "<html></html>",
	})
	gw := &mockGateway{}
	report := &Report{}

	result, err := Run(context.Background(), gw, p, report)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"GetSite",
		"CreateThemeVersion",
		"RequestAssetSignature",
		"UploadToStorage",
		"RegisterAssetUpload",
		"CreatePartial",
		"CreateNavigation",
		"CreateContentTemplate",
		"CreateBlock",
		"CreateDisplay",
		"CreateLayout",
		"PublishTheme",
	}, gw.calls)

	require.Len(t, gw.blocks, 1)
	assert.Equal(t, 0, gw.blocks[0].Position)
	assert.Equal(t, "text", gw.blocks[0].DataType)

	require.Len(t, gw.displays, 1)
	assert.True(t, gw.displays[0].Default)
	assert.Equal(t, "{{ content.body }}", gw.displays[0].Content)

	assert.Equal(t, 1, result.Partials)
	assert.Equal(t, 1, result.Navigations)
	assert.Equal(t, 1, result.ContentTemplates)
	assert.Equal(t, 1, result.Layouts)
}

func TestPushRegionUpdateResolvesContentTemplates(t *testing.T) {
	p := writeProject(t, map[string]string{
		"content_templates/content_templates.json": `[
			{"title": "Article", "var_name": "articles"}
		]`,
		"layouts/layouts.json": `[
			{"title": "Default",
			 "regions": [{"title": "Main", "var_name": "main", "content_templates": ["articles"]}]}
		]`,
		"layouts/default.liquid": `{% region "main" %}`,
	})
	gw := &mockGateway{
		layoutIncluded: `[
			{"id": "r-1", "type": "regions",
			 "attributes": {"var-name": "main", "title": "Main"},
			 "relationships": {"content-templates": {"data": []}}}
		]`,
	}
	report := &Report{}

	result, err := Run(context.Background(), gw, p, report)
	require.NoError(t, err)

	require.Len(t, gw.regionUpdates, 1)
	update := gw.regionUpdates[0]
	assert.True(t, update.SetContentTemplates)
	assert.Equal(t, []string{"ct-1"}, update.ContentTemplateIDs)
	assert.Empty(t, update.Attributes, "title matches the server, so no attribute diff")
	assert.Equal(t, 1, result.RegionsUpdated)
}

func TestPushRegionAllEqualProducesNoPatch(t *testing.T) {
	p := writeProject(t, map[string]string{
		"layouts/layouts.json": `[
			{"title": "Default",
			 "regions": [{"title": "Main", "var_name": "main"}]}
		]`,
		"layouts/default.liquid": `{% region "main" %}`,
	})
	gw := &mockGateway{
		layoutIncluded: `[
			{"id": "r-1", "type": "regions",
			 "attributes": {"var-name": "main", "title": "Main"}}
		]`,
	}
	report := &Report{}

	result, err := Run(context.Background(), gw, p, report)
	require.NoError(t, err)

	assert.NotContains(t, gw.calls, "UpdateRegion")
	assert.Zero(t, result.RegionsUpdated)
}

func TestPushRegionWithoutSpecIsSkipped(t *testing.T) {
	p := writeProject(t, map[string]string{
		"layouts/layouts.json":   `[{"title": "Default"}]`,
		"layouts/default.liquid": `{% region "sidebar" %}`,
	})
	gw := &mockGateway{
		layoutIncluded: `[
			{"id": "r-9", "type": "regions",
			 "attributes": {"var-name": "sidebar", "title": "Sidebar"}}
		]`,
	}
	report := &Report{}

	_, err := Run(context.Background(), gw, p, report)
	require.NoError(t, err)

	assert.NotContains(t, gw.calls, "UpdateRegion")
	assert.False(t, report.HasErrors())
}

func TestPushRegionDiffClearsDescription(t *testing.T) {
	p := writeProject(t, map[string]string{
		"layouts/layouts.json": `[
			{"title": "Default",
			 "regions": [{"title": "Main", "var_name": "main", "description": null, "max_content_count": 5}]}
		]`,
		"layouts/default.liquid": `{% region "main" %}`,
	})
	gw := &mockGateway{
		layoutIncluded: `[
			{"id": "r-1", "type": "regions",
			 "attributes": {"var-name": "main", "title": "Main", "description": "old", "max-num-content": 3}}
		]`,
	}
	report := &Report{}

	_, err := Run(context.Background(), gw, p, report)
	require.NoError(t, err)

	require.Len(t, gw.regionUpdates, 1)
	attrs := gw.regionUpdates[0].Attributes
	val, present := attrs["description"]
	assert.True(t, present)
	assert.Nil(t, val)
	assert.Equal(t, 5, attrs["max-num-content"])
	_, present = attrs["title"]
	assert.False(t, present, "equal title must be omitted from the diff")
}

func TestPushContentTemplate422HaltsBeforeBlocks(t *testing.T) {
	p := writeProject(t, map[string]string{
		"content_templates/content_templates.json": `[
			{"title": "Blog Post",
			 "blocks": [{"title": "Body", "data_type": "text"}],
			 "displays": [{"title": "Default"}]}
		]`,
		"content_templates/blog_post/default.liquid": "{{ content.body }}",
	})
	gw := &mockGateway{
		failOp: "CreateContentTemplate",
		failResp: jsonapiResponse(422, `{"errors": [
			{"detail": "can't be blank", "source": {"pointer": "/data/attributes/title"}}
		]}`),
	}
	report := &Report{}

	_, err := Run(context.Background(), gw, p, report)
	assert.ErrorIs(t, err, ErrAborted)

	assert.NotContains(t, gw.calls, "CreateBlock")
	assert.NotContains(t, gw.calls, "CreateDisplay")
	assert.NotContains(t, gw.calls, "PublishTheme")

	texts := reportTexts(report)
	require.Len(t, texts, 1)
	assert.Equal(t, "Content template 'Blog Post': title can't be blank", texts[0])
}

func TestPushBlockFailureCarriesPosition(t *testing.T) {
	p := writeProject(t, map[string]string{
		"content_templates/content_templates.json": `[
			{"title": "Post", "blocks": [{"title": "Body", "data_type": "text"}]}
		]`,
	})
	gw := &mockGateway{
		failOp:   "CreateBlock",
		failResp: jsonapiResponse(422, `{"errors": [{"detail": "is invalid", "source": {"pointer": "/data/attributes/var-name"}}]}`),
	}
	report := &Report{}

	_, err := Run(context.Background(), gw, p, report)
	assert.ErrorIs(t, err, ErrAborted)

	texts := reportTexts(report)
	require.Len(t, texts, 1)
	assert.Equal(t, "Block in position 0: var-name is invalid", texts[0])
}

func TestPushValidationFailureMakesNoCalls(t *testing.T) {
	p := writeProject(t, map[string]string{
		"content_templates/content_templates.json": `[
			{"title": "Post", "blocks": [{"title": "Body", "data_type": "markdown"}]}
		]`,
	})
	gw := &mockGateway{}
	report := &Report{}

	_, err := Run(context.Background(), gw, p, report)
	assert.ErrorIs(t, err, ErrAborted)
	assert.Empty(t, gw.calls, "validation failures must abort before any network activity")
	assert.True(t, report.HasErrors())
}

func TestPushRefreshFailureIsSingleMessage(t *testing.T) {
	p := writeProject(t, map[string]string{
		"assets/logo.png": "bytes",
	})
	gw := &mockGateway{
		failOp:  "CreateThemeVersion",
		failErr: &api.RefreshError{Err: fmt.Errorf("grant revoked")},
	}
	report := &Report{}

	_, err := Run(context.Background(), gw, p, report)
	assert.ErrorIs(t, err, ErrAborted)

	texts := reportTexts(report)
	require.Len(t, texts, 1)
	assert.True(t, strings.Contains(texts[0], "log in again"), "got %q", texts[0])
}

func TestPushRefreshFailureDuringSnapshotFetch(t *testing.T) {
	p := writeProject(t, map[string]string{
		"assets/logo.png": "bytes",
	})
	gw := &mockGateway{
		failOp:  "GetSite",
		failErr: &api.RefreshError{Err: fmt.Errorf("grant revoked")},
	}
	report := &Report{}

	_, err := Run(context.Background(), gw, p, report)
	assert.ErrorIs(t, err, ErrAborted)

	// No "all assets will be uploaded" warning, just the credentials
	// message, and the push never got to creating a theme version.
	texts := reportTexts(report)
	require.Len(t, texts, 1)
	assert.True(t, strings.Contains(texts[0], "log in again"), "got %q", texts[0])
	assert.Equal(t, []string{"GetSite"}, gw.calls)
}

func TestPushAssetFailureKeepsEarlierUploads(t *testing.T) {
	p := writeProject(t, map[string]string{
		"assets/a.css": "a",
		"assets/b.css": "b",
	})
	gw := &mockGateway{
		failOp:   "RegisterAssetUpload",
		failResp: api.NewResponse(500, "application/json", []byte(`{"error": "storage unavailable"}`)),
	}
	report := &Report{}

	_, err := Run(context.Background(), gw, p, report)
	assert.ErrorIs(t, err, ErrAborted)

	// First file's chain ran and is not rolled back; push stops there.
	assert.Equal(t, []string{"a.css"}, gw.signatures)
	assert.NotContains(t, gw.calls, "PublishTheme")

	texts := reportTexts(report)
	require.Len(t, texts, 1)
	assert.Equal(t, "Asset a.css: storage unavailable", texts[0])
}

func TestPushPublishesOnlyAfterAllStages(t *testing.T) {
	p := writeProject(t, map[string]string{
		"partials/footer.liquid": "<footer></footer>",
	})
	gw := &mockGateway{
		failOp:   "CreatePartial",
		failResp: jsonapiResponse(422, `{"errors": [{"detail": "is too large", "source": {"pointer": "/data/attributes/content"}}]}`),
	}
	report := &Report{}

	_, err := Run(context.Background(), gw, p, report)
	assert.ErrorIs(t, err, ErrAborted)
	assert.Empty(t, gw.published)
	assert.Equal(t, []string{"Partial footer.liquid: content is too large"}, reportTexts(report))
}
