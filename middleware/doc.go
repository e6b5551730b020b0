// Package middleware exposes HTTP adapters over gatekit.Engine.
//
// # Guards
//
//   - [Guard] — bearer token extraction, access verification, user into context.
//   - [RequireRole] — role enforcement for guarded routes.
//
// Each guard reads the Authorization header, calls the engine, and maps
// failures to 401 or 403.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement authentication logic itself; all decisions are delegated to
// the engine.
package middleware
