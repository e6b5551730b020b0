package gatekit

import (
	"github.com/dkrylov/gatekit/token"
	"github.com/dkrylov/gatekit/userstore"
)

// Re-exported identity types so most callers only import this package.
type (
	User = userstore.User
	Role = userstore.Role
)

const (
	RoleAdmin = userstore.RoleAdmin
	RoleUser  = userstore.RoleUser
	RoleGuest = userstore.RoleGuest
)

// ErrUserNotFound is returned by user lookups on the underlying store.
var ErrUserNotFound = userstore.ErrUserNotFound

// TokenPair is the result of a successful login: a short-lived access
// token and a longer-lived refresh token, signed under separate secrets.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// BearerTokenType is the scheme stamped into every issued TokenPair.
const BearerTokenType = "bearer"

// Claims is the decoded payload of a verified token.
type Claims = token.Claims

// Token type discriminators, re-exported from the codec.
const (
	TypeAccess  = token.TypeAccess
	TypeRefresh = token.TypeRefresh
)
