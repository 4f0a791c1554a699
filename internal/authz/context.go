package authz

import "context"

type sessionContextKey struct{}

type scopeContextKey struct{}

// ContextWithSession stores the resolved session in context.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext extracts the session from context. Returns nil when
// the request carries no valid session.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}

// ContextWithScope stores the tenant scope produced by an ALLOW decision.
func ContextWithScope(ctx context.Context, scope TenantScope) context.Context {
	return context.WithValue(ctx, scopeContextKey{}, scope)
}

// ScopeFromContext extracts the tenant scope. The zero scope (global) is
// returned when no decision has been recorded; handlers behind
// RequireModule always see the decision's scope.
func ScopeFromContext(ctx context.Context) TenantScope {
	scope, _ := ctx.Value(scopeContextKey{}).(TenantScope)
	return scope
}
