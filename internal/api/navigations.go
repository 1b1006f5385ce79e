package api

import "context"

// NavigationParams describes one navigation to create under a theme.
type NavigationParams struct {
	Title       string
	VarName     string
	Description string
	Content     string
}

// CreateNavigation creates a navigation record with its markup content.
func (c *Client) CreateNavigation(ctx context.Context, themeID string, params NavigationParams) (*Response, error) {
	attrs := map[string]any{
		"title":   params.Title,
		"content": params.Content,
	}
	if params.VarName != "" {
		attrs["var-name"] = params.VarName
	}
	if params.Description != "" {
		attrs["description"] = params.Description
	}

	p := newPayload("navigations", attrs)
	return c.Send(ctx, "POST", "/themes/"+themeID+"/navigations", RequestOptions{Payload: p})
}
