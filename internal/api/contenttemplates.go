package api

import "context"

// ContentTemplateParams describes one content template to create.
type ContentTemplateParams struct {
	Title       string
	VarName     string
	FolderName  string
	Description string
	Unique      bool
	IconTitle   string
}

// CreateContentTemplate creates a content template under a theme. The
// response carries the server-assigned id and canonical var-name, which
// callers must retain for region cross-referencing.
func (c *Client) CreateContentTemplate(ctx context.Context, themeID string, params ContentTemplateParams) (*Response, error) {
	attrs := map[string]any{
		"title":  params.Title,
		"unique": params.Unique,
	}
	if params.VarName != "" {
		attrs["var-name"] = params.VarName
	}
	if params.FolderName != "" {
		attrs["folder-name"] = params.FolderName
	}
	if params.Description != "" {
		attrs["description"] = params.Description
	}
	if params.IconTitle != "" {
		attrs["icon-title"] = params.IconTitle
	}

	p := newPayload("content-templates", attrs)
	return c.Send(ctx, "POST", "/themes/"+themeID+"/content-templates", RequestOptions{Payload: p})
}

// BlockParams describes one typed field of a content template. Position is
// the manifest array index and fixes display order at creation time.
type BlockParams struct {
	Title       string
	DataType    string
	Position    int
	VarName     string
	Description string
	Required    bool
	Inline      bool
}

// CreateBlock creates a block on a content template.
func (c *Client) CreateBlock(ctx context.Context, templateID string, params BlockParams) (*Response, error) {
	attrs := map[string]any{
		"title":     params.Title,
		"data-type": params.DataType,
		"position":  params.Position,
		"required":  params.Required,
		"inline":    params.Inline,
	}
	if params.VarName != "" {
		attrs["var-name"] = params.VarName
	}
	if params.Description != "" {
		attrs["description"] = params.Description
	}

	p := newPayload("blocks", attrs)
	return c.Send(ctx, "POST", "/content-templates/"+templateID+"/blocks", RequestOptions{Payload: p})
}

// DisplayParams describes one render variant of a content template.
type DisplayParams struct {
	Title       string
	Content     string
	Position    int
	Description string
	Default     bool
}

// CreateDisplay creates a display on a content template.
func (c *Client) CreateDisplay(ctx context.Context, templateID string, params DisplayParams) (*Response, error) {
	attrs := map[string]any{
		"title":    params.Title,
		"content":  params.Content,
		"position": params.Position,
		"default":  params.Default,
	}
	if params.Description != "" {
		attrs["description"] = params.Description
	}

	p := newPayload("displays", attrs)
	return c.Send(ctx, "POST", "/content-templates/"+templateID+"/displays", RequestOptions{Payload: p})
}
