package gatekit

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/dkrylov/gatekit/internal/audit"
	"github.com/dkrylov/gatekit/password"
	"github.com/dkrylov/gatekit/revocation"
	"github.com/dkrylov/gatekit/token"
	"github.com/dkrylov/gatekit/userstore"
)

// Engine is the authentication core. It verifies credentials, issues and
// verifies token pairs, maintains the revocation blacklist, and enforces
// role requirements. All methods are safe for concurrent use.
type Engine struct {
	cfg      Config
	codec    *token.Codec
	users    userstore.Store
	hasher   password.Hasher
	registry revocation.Registry
	auditor  *audit.Dispatcher
	metrics  *counters

	sweepStop context.CancelFunc
	closed    atomic.Bool
}

// Login verifies a username/password pair and issues a fresh token pair.
// Unknown usernames and wrong passwords both fail with
// ErrInvalidCredentials.
func (e *Engine) Login(ctx context.Context, username, pass string) (TokenPair, error) {
	if e.closed.Load() {
		return TokenPair{}, ErrEngineClosed
	}

	user, err := e.users.GetByUsername(username)
	if err != nil {
		e.metrics.inc(MetricLoginFailure)
		e.emitAudit(ctx, AuditLogin, username, "", "", false, ErrInvalidCredentials)
		return TokenPair{}, ErrInvalidCredentials
	}

	ok, err := e.hasher.Verify(pass, user.PasswordHash)
	if err != nil {
		e.metrics.inc(MetricLoginFailure)
		e.emitAudit(ctx, AuditLogin, username, string(user.Role), "", false, err)
		return TokenPair{}, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		e.metrics.inc(MetricLoginFailure)
		e.emitAudit(ctx, AuditLogin, username, string(user.Role), "", false, ErrInvalidCredentials)
		return TokenPair{}, ErrInvalidCredentials
	}

	if user.Disabled {
		e.metrics.inc(MetricLoginDisabled)
		e.emitAudit(ctx, AuditLogin, username, string(user.Role), "", false, ErrAccountDisabled)
		return TokenPair{}, ErrAccountDisabled
	}

	pair, err := e.issuePair(user.Username)
	if err != nil {
		e.metrics.inc(MetricLoginFailure)
		e.emitAudit(ctx, AuditLogin, username, string(user.Role), "", false, err)
		return TokenPair{}, err
	}

	e.metrics.inc(MetricLoginSuccess)
	e.emitAudit(ctx, AuditLogin, username, string(user.Role), "", true, nil)
	return pair, nil
}

func (e *Engine) issuePair(subject string) (TokenPair, error) {
	access, err := e.codec.Issue(subject, token.TypeAccess, e.cfg.JWT.AccessTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := e.codec.Issue(subject, token.TypeRefresh, e.cfg.JWT.RefreshTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    BearerTokenType,
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// presented refresh token is echoed back unchanged; its lifetime bounds
// the session.
func (e *Engine) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	if e.closed.Load() {
		return TokenPair{}, ErrEngineClosed
	}

	user, _, err := e.verify(ctx, refreshToken, token.TypeRefresh)
	if err != nil {
		e.metrics.inc(MetricRefreshFailure)
		e.emitAudit(ctx, AuditRefresh, "", "", "", false, err)
		return TokenPair{}, err
	}

	access, err := e.codec.Issue(user.Username, token.TypeAccess, e.cfg.JWT.AccessTTL)
	if err != nil {
		e.metrics.inc(MetricRefreshFailure)
		e.emitAudit(ctx, AuditRefresh, user.Username, string(user.Role), "", false, err)
		return TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}

	e.metrics.inc(MetricRefreshSuccess)
	e.emitAudit(ctx, AuditRefresh, user.Username, string(user.Role), "", true, nil)
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refreshToken,
		TokenType:    BearerTokenType,
	}, nil
}

// Authenticate verifies an access token end to end and resolves its
// subject. It is the entry point for every protected operation.
func (e *Engine) Authenticate(ctx context.Context, accessToken string) (*User, error) {
	if e.closed.Load() {
		return nil, ErrEngineClosed
	}

	user, claims, err := e.verify(ctx, accessToken, token.TypeAccess)
	if err != nil {
		if errors.Is(err, ErrTokenRevoked) {
			e.metrics.inc(MetricAccessRevoked)
		} else {
			e.metrics.inc(MetricAccessRejected)
		}
		e.emitAudit(ctx, AuditVerify, "", "", tokenID(claims), false, err)
		return nil, err
	}

	e.metrics.inc(MetricAccessVerified)
	e.emitAudit(ctx, AuditVerify, user.Username, string(user.Role), claims.ID, true, nil)
	return user, nil
}

// VerifyRefresh validates a refresh token and returns its subject without
// issuing anything.
func (e *Engine) VerifyRefresh(ctx context.Context, refreshToken string) (string, error) {
	if e.closed.Load() {
		return "", ErrEngineClosed
	}
	user, _, err := e.verify(ctx, refreshToken, token.TypeRefresh)
	if err != nil {
		return "", err
	}
	return user.Username, nil
}

// verify runs the fixed check sequence for one token: decode (parse,
// signature, type, expiry), revocation, then subject resolution. Refresh
// tokens skip the revocation lookup; logout only blacklists access
// tokens.
func (e *Engine) verify(ctx context.Context, tokenStr string, want token.Type) (*User, *token.Claims, error) {
	claims, err := e.codec.Decode(tokenStr, want)
	if err != nil {
		return nil, nil, err
	}

	if want == token.TypeAccess {
		revoked, err := e.registry.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, claims, err
		}
		if revoked {
			return nil, claims, ErrTokenRevoked
		}
	}

	user, err := e.users.GetByUsername(claims.Subject)
	if err != nil {
		if errors.Is(err, userstore.ErrUserNotFound) {
			return nil, claims, ErrUnknownSubject
		}
		return nil, claims, err
	}
	if user.Disabled {
		return nil, claims, ErrAccountDisabled
	}
	return &user, claims, nil
}

// Logout blacklists the presented access token by its token ID until the
// token's natural expiry. The operation is idempotent; repeated logout of
// an already revoked token fails with ErrTokenRevoked because the token
// no longer authenticates.
func (e *Engine) Logout(ctx context.Context, accessToken string) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	user, claims, err := e.verify(ctx, accessToken, token.TypeAccess)
	if err != nil {
		e.emitAudit(ctx, AuditLogout, "", "", tokenID(claims), false, err)
		return err
	}

	if err := e.registry.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		e.emitAudit(ctx, AuditLogout, user.Username, string(user.Role), claims.ID, false, err)
		return err
	}

	e.metrics.inc(MetricLogout)
	e.emitAudit(ctx, AuditLogout, user.Username, string(user.Role), claims.ID, true, nil)
	return nil
}

// RequireRole checks that user carries exactly the required role. There
// is no role hierarchy; an admin-gated route does not admit other roles
// and a user-gated route does not admit admins.
func (e *Engine) RequireRole(user *User, required Role) error {
	if !required.Valid() {
		return ErrUnknownRole
	}
	if user == nil {
		return ErrForbidden
	}
	if user.Role == required {
		return nil
	}
	e.metrics.inc(MetricRoleDenied)
	e.emitAudit(context.Background(), AuditDenied, user.Username, string(user.Role), "", false, ErrForbidden)
	return ErrForbidden
}

// Users lists every known user, sorted by username.
func (e *Engine) Users() []User {
	return e.users.All()
}

// MetricsSnapshot copies the current counter values.
func (e *Engine) MetricsSnapshot() map[MetricID]uint64 {
	return e.metrics.snapshot()
}

// Close stops the background sweeper and flushes the audit queue. The
// engine rejects all operations afterwards.
func (e *Engine) Close() {
	if !e.closed.CompareAndSwap(false, true) {
		return
	}
	if e.sweepStop != nil {
		e.sweepStop()
	}
	e.auditor.Close()
}

func tokenID(claims *token.Claims) string {
	if claims == nil {
		return ""
	}
	return claims.ID
}
