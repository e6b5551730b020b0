// Package gatekit provides a token-based authentication engine with HS256
// JWT access and refresh tokens signed under independent secrets, a
// revocation blacklist for logout, and role-based authorization.
//
// The package is designed for concurrent server workloads: Engine methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// gatekit is the public surface. It exposes [Engine], [Builder], [Config],
// and value types (TokenPair, User, AuditEvent). Token encoding, the
// revocation registry, credential storage, and password hashing live in
// sub-packages; audit dispatch lives under internal/ and is never
// exported directly.
//
// # What this package must NOT do
//
//   - Expose Redis clients or signing secrets in its public API.
//   - Perform I/O outside of Engine methods (construction via Builder is
//     allocation-only until Build).
//   - Import any sub-package that re-imports gatekit (no import cycles).
package gatekit
