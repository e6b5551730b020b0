package gatekit

import (
	"errors"

	"github.com/dkrylov/gatekit/revocation"
	"github.com/dkrylov/gatekit/token"
)

// Sentinel errors returned by Engine operations. Callers branch with
// errors.Is; the messages are stable but not part of the contract.
var (
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password so login failures do not leak which part was wrong.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrAccountDisabled is returned when the credentials are correct but
	// the account has been switched off.
	ErrAccountDisabled = errors.New("account disabled")

	// ErrUnknownSubject is returned when a token verifies cryptographically
	// but its subject no longer resolves to a user.
	ErrUnknownSubject = errors.New("token subject unknown")

	// ErrTokenRevoked is returned for tokens invalidated by logout.
	ErrTokenRevoked = errors.New("token revoked")

	// ErrForbidden is returned when an authenticated user lacks the role
	// required for an operation.
	ErrForbidden = errors.New("insufficient role")

	// ErrUnknownRole is returned when a role requirement names a role the
	// system does not define.
	ErrUnknownRole = errors.New("unknown role")

	// ErrEngineNotReady is returned by Build when a required dependency
	// is missing.
	ErrEngineNotReady = errors.New("engine not ready")

	// ErrEngineClosed is returned by operations on an engine after Close.
	ErrEngineClosed = errors.New("engine closed")
)

// Token verification errors, re-exported so callers only import this
// package. Each identifies exactly one failure class.
var (
	ErrMalformedToken = token.ErrMalformed
	ErrBadSignature   = token.ErrBadSignature
	ErrTokenExpired   = token.ErrExpired
	ErrWrongTokenType = token.ErrWrongType
)

// ErrRevocationUnavailable is returned when the revocation backend cannot
// be reached. Verification fails closed in that case.
var ErrRevocationUnavailable = revocation.ErrUnavailable
