package auth

import (
	"crypto/sha256"
	"errors"
	"net/http"
	"strings"
)

// CookieName carries the API key for browser sessions
const CookieName = "cron_commander_key"

// ErrNoCredentials is returned when a request carries no API key
var ErrNoCredentials = errors.New("no credentials")

// ErrUnknownKey is returned for keys that are not configured
var ErrUnknownKey = errors.New("unknown api key")

// Authenticator resolves a request to a Caller
type Authenticator interface {
	Authenticate(r *http.Request) (*Caller, error)
}

// APIKey binds a secret key to a caller identity
type APIKey struct {
	Key          string
	Caller       string
	Capabilities []string
}

type keyAuthenticator struct {
	callers map[[sha256.Size]byte]*Caller
}

// NewKeyAuthenticator creates an Authenticator over statically configured keys.
// Keys are held hashed so lookups don't compare secrets directly.
func NewKeyAuthenticator(keys []APIKey) Authenticator {
	callers := make(map[[sha256.Size]byte]*Caller, len(keys))
	for _, k := range keys {
		if k.Key == "" {
			continue
		}
		caps := make([]Capability, 0, len(k.Capabilities))
		for _, c := range k.Capabilities {
			caps = append(caps, Capability(c))
		}
		callers[sha256.Sum256([]byte(k.Key))] = &Caller{
			ID:           k.Caller,
			Capabilities: caps,
		}
	}
	return &keyAuthenticator{callers: callers}
}

func (a *keyAuthenticator) Authenticate(r *http.Request) (*Caller, error) {
	key := extractKey(r)
	if key == "" {
		return nil, ErrNoCredentials
	}

	caller, ok := a.callers[sha256.Sum256([]byte(key))]
	if !ok {
		return nil, ErrUnknownKey
	}
	return caller, nil
}

// extractKey reads "Authorization: Bearer <key>", falling back to the session cookie
func extractKey(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}

	if cookie, err := r.Cookie(CookieName); err == nil {
		return cookie.Value
	}

	return ""
}
