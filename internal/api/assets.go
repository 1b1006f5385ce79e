package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
)

// RequestAssetSignature asks the service for a signed direct-to-storage
// upload policy. The endpoint is form-encoded and answers plain JSON.
func (c *Client) RequestAssetSignature(ctx context.Context, fileName, contentType string) (*Response, error) {
	form := url.Values{}
	form.Set("file_name", fileName)
	form.Set("content_type", contentType)
	return c.Send(ctx, "POST", "/themes/assets/signatures", RequestOptions{Form: form, Plain: true})
}

// UploadToStorage posts the file to the object store using the signature
// fields verbatim, file part last, unauthenticated. The target URL is
// absolute and outside the service's API surface.
func (c *Client) UploadToStorage(ctx context.Context, target string, fields map[string]string, fileName string, content []byte, contentType string) (*Response, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("write field %s: %w", k, err)
		}
	}
	if err := w.WriteField("Content-Type", contentType); err != nil {
		return nil, fmt.Errorf("write content type: %w", err)
	}

	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("write file part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", target, &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	return c.execute(req)
}

// AssetUploadParams registers an object already placed in storage as a new
// asset of a theme.
type AssetUploadParams struct {
	Key         string // storage object key from the signature fields
	Path        string // path of the asset relative to assets/
	ContentType string
}

// RegisterAssetUpload turns an uploaded storage object into a theme asset.
func (c *Client) RegisterAssetUpload(ctx context.Context, themeID string, params AssetUploadParams) (*Response, error) {
	p := newPayload("theme-assets", map[string]any{
		"key":          params.Key,
		"path":         params.Path,
		"content-type": params.ContentType,
	})
	return c.Send(ctx, "POST", "/themes/"+themeID+"/assets/uploads", RequestOptions{Payload: p})
}

// AssociateAsset attaches an already-uploaded asset to a theme at the given
// path, skipping the storage round-trip entirely.
func (c *Client) AssociateAsset(ctx context.Context, themeID, path, assetID string) (*Response, error) {
	p := newPayload("theme-assets", map[string]any{"path": path}).
		relate("asset", toOne("assets", assetID))
	return c.Send(ctx, "POST", "/themes/"+themeID+"/assets", RequestOptions{Payload: p})
}
