package api

import "context"

// PartialParams describes one partial to create under a theme.
type PartialParams struct {
	Path    string // path relative to partials/
	Content string
}

// CreatePartial creates a partial record on the given theme.
func (c *Client) CreatePartial(ctx context.Context, themeID string, params PartialParams) (*Response, error) {
	p := newPayload("partials", map[string]any{
		"path":    params.Path,
		"content": params.Content,
	})
	return c.Send(ctx, "POST", "/themes/"+themeID+"/partials", RequestOptions{Payload: p})
}
