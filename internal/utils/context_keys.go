package utils

// contextKey is a type used for context keys to avoid conflicts with other packages' context keys.
type contextKey struct {
	name string
}

// Returns string representation of the context key.
func (c *contextKey) String() string {
	return c.name
}

// SessionKey is the context key under which the loaded session is stored
// for the duration of a request.
var SessionKey = &contextKey{"session"}

// TraceIdKey is the context key for the per-request trace id.
var TraceIdKey = &contextKey{"traceId"}
