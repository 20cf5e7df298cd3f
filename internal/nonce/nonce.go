// Package nonce issues single-use anti-replay tokens bound to a caller scope.
package nonce

import (
	"context"
	"net/url"
	"time"
)

// DefaultTTL bounds how long an issued token stays redeemable
const DefaultTTL = 12 * time.Hour

// Store issues tokens and redeems each one at most once
type Store interface {
	Issue(ctx context.Context, scope string) (string, error)

	// Consume returns domain.ErrInvalidToken unless token was issued for scope,
	// has not expired and has not been consumed before
	Consume(ctx context.Context, scope, token string) error
}

// Scope builds the scope a caller's tokens are bound to for an action.
// Both parts are escaped so a scope always holds exactly one ':'.
func Scope(callerID, action string) string {
	return url.QueryEscape(callerID) + ":" + url.QueryEscape(action)
}

func storageKey(scope, token string) string {
	return "nonce:" + scope + ":" + token
}
