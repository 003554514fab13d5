package accesssdk

import (
	"context"
	"net/url"
)

// RegisterEntitlement registers the given code for a user (creating it when
// new) and grants or extends their access window. The backend calling this
// is trusted to have already verified payment.
func (c *SDKClient) RegisterEntitlement(ctx context.Context, req RegisterEntitlementRequest) (*RegisterEntitlementResponse, error) {
	var out RegisterEntitlementResponse
	if err := c.postJSON(ctx, "/v1/entitlements", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetEntitlementStatus returns a user's access window and delivery code.
// Unknown users come back with Exists=false, not an error.
func (c *SDKClient) GetEntitlementStatus(ctx context.Context, userID string) (*StatusResponse, error) {
	var out StatusResponse
	if err := c.getJSON(ctx, "/v1/entitlements/"+url.PathEscape(userID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
