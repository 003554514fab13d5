// Package accesssdk provides a Go client for the OneClick access service.
//
// The client speaks the trusted Entitlement API: a delivery backend that
// already verified payment registers or extends entitlements, resolves
// delivery codes, and re-binds codes to new owners. All calls except the
// health probes require the shared API secret.
package accesssdk
