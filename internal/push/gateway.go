package push

import (
	"context"

	"github.com/pagecraft/pagecraft-cli/internal/api"
)

// Gateway is the slice of the API client the orchestrator depends on.
// *api.Client satisfies it; tests substitute a mock.
type Gateway interface {
	GetSite(ctx context.Context) (*api.Response, error)
	GetTheme(ctx context.Context, id string, includes []string) (*api.Response, error)
	CreateThemeVersion(ctx context.Context, name string) (*api.Response, error)

	RequestAssetSignature(ctx context.Context, fileName, contentType string) (*api.Response, error)
	UploadToStorage(ctx context.Context, target string, fields map[string]string, fileName string, content []byte, contentType string) (*api.Response, error)
	RegisterAssetUpload(ctx context.Context, themeID string, params api.AssetUploadParams) (*api.Response, error)
	AssociateAsset(ctx context.Context, themeID, path, assetID string) (*api.Response, error)

	CreatePartial(ctx context.Context, themeID string, params api.PartialParams) (*api.Response, error)
	CreateNavigation(ctx context.Context, themeID string, params api.NavigationParams) (*api.Response, error)
	CreateContentTemplate(ctx context.Context, themeID string, params api.ContentTemplateParams) (*api.Response, error)
	CreateBlock(ctx context.Context, templateID string, params api.BlockParams) (*api.Response, error)
	CreateDisplay(ctx context.Context, templateID string, params api.DisplayParams) (*api.Response, error)
	CreateLayout(ctx context.Context, themeID string, params api.LayoutParams) (*api.Response, error)
	UpdateRegion(ctx context.Context, themeID, layoutID, regionID string, update api.RegionUpdate) (*api.Response, error)

	PublishTheme(ctx context.Context, themeID string) (*api.Response, error)
}

var _ Gateway = (*api.Client)(nil)
