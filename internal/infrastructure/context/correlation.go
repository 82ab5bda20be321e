package context

import "context"

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// CorrelationIDKey is the context key for correlation IDs.
	CorrelationIDKey contextKey = "correlation_id"
	usuarioKey       contextKey = "usuario"
)

// Usuario is the authenticated caller, as read from the bearer token.
type Usuario struct {
	ID     string
	Nombre string
	Rol    string
	Unidad string
}

// WithCorrelationID adds a correlation ID to the context.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, CorrelationIDKey, correlationID)
}

// GetCorrelationID retrieves the correlation ID from the context.
// Returns an empty string if no correlation ID is present.
func GetCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(CorrelationIDKey).(string); ok {
		return id
	}
	return ""
}

// WithUsuario stores the authenticated caller in the context.
func WithUsuario(ctx context.Context, u Usuario) context.Context {
	return context.WithValue(ctx, usuarioKey, u)
}

// GetUsuario returns the authenticated caller, if any.
func GetUsuario(ctx context.Context) (Usuario, bool) {
	u, ok := ctx.Value(usuarioKey).(Usuario)
	return u, ok
}
