//go:build unit

package commands

// RequestHash exposes the idempotency request hash for tests.
var RequestHash = calculateRequestHash
