package http_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	httpapi "github.com/oneclicklabs/oneclick-access/internal/access/http"
	"github.com/oneclicklabs/oneclick-access/internal/access/metrics"
	"github.com/oneclicklabs/oneclick-access/internal/access/service"
	"github.com/oneclicklabs/oneclick-access/internal/access/store/drivers/sqlite"
	"github.com/oneclicklabs/oneclick-access/pkg/accesssdk"
	"github.com/oneclicklabs/oneclick-access/pkg/httpx"
	"github.com/oneclicklabs/oneclick-access/pkg/slogx"
)

const testSecret = "test-api-secret-12345"

var apiMetrics = metrics.New() // promauto registers globally; one instance per test binary

// setupServer wires a router against an in-memory store and returns an SDK
// client pointed at it.
func setupServer(t *testing.T) *accesssdk.SDKClient {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	logger := slogx.New(slogx.Config{Service: "access-test", Level: "error", Format: "text"})

	router := httpapi.NewRouter(httpx.StaticSecret(testSecret), "test", st, logger)
	router.Metrics = apiMetrics
	router.RegistrationService = &service.RegistrationService{Store: st}
	router.IssuanceService = &service.IssuanceService{Store: st}
	router.ApplyRoutes()

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return accesssdk.NewSDKClient(server.URL, testSecret)
}

func TestHealthEndpoints(t *testing.T) {
	client := setupServer(t)

	health, err := client.GetLiveness(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", health.Status)

	ready, err := client.GetReadiness(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.NotNil(t, ready.Checks)
	require.Equal(t, "ok", ready.Checks.Database)
}

func TestEntitlementAPIRequiresSecret(t *testing.T) {
	client := setupServer(t)
	ctx := t.Context()

	t.Run("wrong secret is rejected", func(t *testing.T) {
		bad := accesssdk.NewSDKClient(client.BaseURL, "wrong-secret")
		_, err := bad.GetEntitlementStatus(ctx, "alice")

		var apiErr *accesssdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, 401, apiErr.StatusCode)
		require.Equal(t, accesssdk.ErrorCodeUnauthorized, apiErr.Code)
	})

	t.Run("missing secret is rejected", func(t *testing.T) {
		anon := accesssdk.NewSDKClient(client.BaseURL, "")
		_, err := anon.GetEntitlementStatus(ctx, "alice")

		var apiErr *accesssdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, 401, apiErr.StatusCode)
	})

	t.Run("rejected request changes nothing", func(t *testing.T) {
		bad := accesssdk.NewSDKClient(client.BaseURL, "wrong-secret")
		_, err := bad.RegisterEntitlement(ctx, accesssdk.RegisterEntitlementRequest{
			UserID: "mallory",
			Code:   "mallory-code",
		})
		require.Error(t, err)

		status, err := client.GetEntitlementStatus(ctx, "mallory")
		require.NoError(t, err)
		require.False(t, status.Exists)
	})
}

func TestRegisterEntitlementEndpoint(t *testing.T) {
	client := setupServer(t)
	ctx := t.Context()

	t.Run("registers a new code and grants access", func(t *testing.T) {
		resp, err := client.RegisterEntitlement(ctx, accesssdk.RegisterEntitlementRequest{
			UserID: "alice",
			Code:   "My Shop",
		})
		require.NoError(t, err)
		require.True(t, resp.OK)
		require.Equal(t, "my-shop", resp.Code)
		require.NotZero(t, resp.ExpiresAt)
	})

	t.Run("second registration extends the expiry", func(t *testing.T) {
		first, err := client.GetEntitlementStatus(ctx, "alice")
		require.NoError(t, err)

		resp, err := client.RegisterEntitlement(ctx, accesssdk.RegisterEntitlementRequest{
			UserID: "alice",
			Code:   "my-shop",
		})
		require.NoError(t, err)
		require.Greater(t, resp.ExpiresAt, first.ExpiresAt)
	})

	t.Run("code owned by another user is a conflict", func(t *testing.T) {
		_, err := client.RegisterEntitlement(ctx, accesssdk.RegisterEntitlementRequest{
			UserID: "mallory",
			Code:   "my-shop",
		})

		var apiErr *accesssdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, 409, apiErr.StatusCode)
		require.Equal(t, accesssdk.ErrorCodeConflict, apiErr.Code)
	})

	t.Run("missing user_id is a bad request", func(t *testing.T) {
		_, err := client.RegisterEntitlement(ctx, accesssdk.RegisterEntitlementRequest{
			Code: "orphan-code",
		})

		var apiErr *accesssdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, 400, apiErr.StatusCode)
		require.Equal(t, accesssdk.ErrorCodeInvalidRequest, apiErr.Code)
	})
}

func TestEntitlementStatusEndpoint(t *testing.T) {
	client := setupServer(t)
	ctx := t.Context()

	t.Run("unknown user reads as absent", func(t *testing.T) {
		status, err := client.GetEntitlementStatus(ctx, "ghost")
		require.NoError(t, err)
		require.True(t, status.OK)
		require.False(t, status.Exists)
	})

	t.Run("registered user reports code and days", func(t *testing.T) {
		_, err := client.RegisterEntitlement(ctx, accesssdk.RegisterEntitlementRequest{
			UserID: "bob",
			Code:   "bobs-store",
			Days:   14,
		})
		require.NoError(t, err)

		status, err := client.GetEntitlementStatus(ctx, "bob")
		require.NoError(t, err)
		require.True(t, status.Exists)
		require.Equal(t, "bobs-store", status.Code)
		require.Equal(t, 14, status.DaysLeft)
		require.NotZero(t, status.ExpiresAt)
	})
}

func TestBindingEndpoints(t *testing.T) {
	client := setupServer(t)
	ctx := t.Context()

	_, err := client.RegisterEntitlement(ctx, accesssdk.RegisterEntitlementRequest{
		UserID: "owner",
		Code:   "weekly-digest",
	})
	require.NoError(t, err)

	t.Run("lookup resolves the owner", func(t *testing.T) {
		binding, err := client.GetBinding(ctx, "weekly-digest")
		require.NoError(t, err)
		require.True(t, binding.OK)
		require.Equal(t, "weekly-digest", binding.Code)
		require.Equal(t, "owner", binding.OwnerUserID)
	})

	t.Run("lookup of an unknown code is 404", func(t *testing.T) {
		_, err := client.GetBinding(ctx, "never-registered")

		var apiErr *accesssdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.True(t, apiErr.IsNotFound())
	})

	t.Run("claim re-binds from a delivery URL", func(t *testing.T) {
		binding, err := client.ClaimBinding(ctx, accesssdk.ClaimRequest{
			Reference: "https://example.com/r/weekly-digest",
			UserID:    "new-owner",
		})
		require.NoError(t, err)
		require.Equal(t, "new-owner", binding.OwnerUserID)
		require.Equal(t, "owner", binding.CreatedBy)

		resolved, err := client.GetBinding(ctx, "weekly-digest")
		require.NoError(t, err)
		require.Equal(t, "new-owner", resolved.OwnerUserID)
	})

	t.Run("claim of an unknown code is 404", func(t *testing.T) {
		_, err := client.ClaimBinding(ctx, accesssdk.ClaimRequest{
			Reference: "never-registered",
			UserID:    "anyone",
		})

		var apiErr *accesssdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, 404, apiErr.StatusCode)
	})

	t.Run("claim with an unusable reference is 400", func(t *testing.T) {
		_, err := client.ClaimBinding(ctx, accesssdk.ClaimRequest{
			Reference: "???",
			UserID:    "anyone",
		})

		var apiErr *accesssdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, 400, apiErr.StatusCode)
	})
}
