package auth

import "context"

// Capability names an administrative permission
type Capability string

// CapabilityManageOptions is required to view and toggle scheduled jobs
const CapabilityManageOptions Capability = "manage_options"

// Caller is an authenticated operator
type Caller struct {
	ID           string
	Capabilities []Capability
}

// Can reports whether the caller holds capability
func (c *Caller) Can(capability Capability) bool {
	if c == nil {
		return false
	}
	for _, held := range c.Capabilities {
		if held == capability {
			return true
		}
	}
	return false
}

type callerKey struct{}

// WithCaller stores the caller on ctx
func WithCaller(ctx context.Context, caller *Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFromContext returns the caller stored by WithCaller, or nil
func CallerFromContext(ctx context.Context) *Caller {
	caller, _ := ctx.Value(callerKey{}).(*Caller)
	return caller
}
