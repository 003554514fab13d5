package accesssdk

import (
	"context"
	"net/url"
)

// GetBinding resolves a delivery code to its owning user, for routing.
func (c *SDKClient) GetBinding(ctx context.Context, code string) (*BindingResponse, error) {
	var out BindingResponse
	if err := c.getJSON(ctx, "/v1/bindings/"+url.PathEscape(code), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClaimBinding re-binds an existing code to a new owner. The reference may
// be the bare code or a delivery URL carrying it.
func (c *SDKClient) ClaimBinding(ctx context.Context, req ClaimRequest) (*BindingResponse, error) {
	var out BindingResponse
	if err := c.postJSON(ctx, "/v1/bindings/claim", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
