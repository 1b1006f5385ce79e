package api

import "context"

// LayoutParams describes one layout to create. The server derives region
// sub-resources from the markup; they come back in the response's included
// list when regions are requested.
type LayoutParams struct {
	Title       string
	Description string
	Unique      bool
	Content     string
}

// CreateLayout creates a layout with its markup, asking for the derived
// regions to be side-loaded.
func (c *Client) CreateLayout(ctx context.Context, themeID string, params LayoutParams) (*Response, error) {
	attrs := map[string]any{
		"title":   params.Title,
		"unique":  params.Unique,
		"content": params.Content,
	}
	if params.Description != "" {
		attrs["description"] = params.Description
	}

	p := newPayload("layouts", attrs)
	return c.Send(ctx, "POST", "/themes/"+themeID+"/layouts?include=regions", RequestOptions{Payload: p})
}

// RegionUpdate is a partial update of a server-derived region. Attributes
// holds only the fields that differ from the server's current values (a nil
// map entry clears the attribute). ContentTemplateIDs is only sent when
// SetContentTemplates is true; an empty list then clears the association,
// while leaving the flag unset does not touch it.
type RegionUpdate struct {
	Attributes          map[string]any
	ContentTemplateIDs  []string
	SetContentTemplates bool
}

// Empty reports whether the update would change nothing.
func (u RegionUpdate) Empty() bool {
	return len(u.Attributes) == 0 && !u.SetContentTemplates
}

// UpdateRegion patches one region of a layout.
func (c *Client) UpdateRegion(ctx context.Context, themeID, layoutID, regionID string, update RegionUpdate) (*Response, error) {
	p := newPayload("regions", update.Attributes)
	p.Data.ID = regionID
	if update.SetContentTemplates {
		p.relate("content-templates", toMany("content-templates", update.ContentTemplateIDs))
	}

	path := "/themes/" + themeID + "/layouts/" + layoutID + "/regions/" + regionID
	return c.Send(ctx, "PATCH", path, RequestOptions{Payload: p})
}
