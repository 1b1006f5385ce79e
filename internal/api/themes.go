package api

import (
	"context"
	"net/url"
	"strings"
)

// ThemeIncludes is the expansive include set fetched once per push so the
// fingerprint matcher and region wiring can see everything already live.
var ThemeIncludes = []string{
	"assets",
	"partials",
	"navigations",
	"layouts",
	"layouts.regions",
	"content_templates",
	"content_templates.blocks",
	"content_templates.displays",
}

// GetSite fetches the current site with its live theme reference.
func (c *Client) GetSite(ctx context.Context) (*Response, error) {
	return c.Send(ctx, "GET", "/site?include=theme", RequestOptions{})
}

// GetTheme fetches one theme with the given side-loaded includes.
func (c *Client) GetTheme(ctx context.Context, id string, includes []string) (*Response, error) {
	path := "/themes/" + id
	if len(includes) > 0 {
		path += "?include=" + url.QueryEscape(strings.Join(includes, ","))
	}
	return c.Send(ctx, "GET", path, RequestOptions{})
}

// CreateThemeVersion creates a new, unpublished theme version. Its id threads
// through every subsequent create of a push.
func (c *Client) CreateThemeVersion(ctx context.Context, name string) (*Response, error) {
	p := newPayload("themes", map[string]any{"name": name})
	return c.Send(ctx, "POST", "/themes", RequestOptions{Payload: p})
}

// PublishTheme sets the given theme version as the site's live theme.
func (c *Client) PublishTheme(ctx context.Context, themeID string) (*Response, error) {
	p := newPayload("sites", nil).relate("theme", toOne("themes", themeID))
	return c.Send(ctx, "PATCH", "/site", RequestOptions{Payload: p})
}
