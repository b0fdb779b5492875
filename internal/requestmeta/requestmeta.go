// Package requestmeta carries request-scoped client metadata through context.Context so
// services can record it without depending on the HTTP layer.
package requestmeta

import "context"

type (
	clientIPKey  struct{}
	userAgentKey struct{}
	requestIDKey struct{}
)

// WithClientMetadata injects client IP and User-Agent into a context.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, clientIPKey{}, clientIP)
	return context.WithValue(ctx, userAgentKey{}, userAgent)
}

// WithRequestID injects the request id into a context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// ClientIP returns the client IP, or "" when not set.
func ClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}

// UserAgent returns the client User-Agent, or "" when not set.
func UserAgent(ctx context.Context) string {
	ua, _ := ctx.Value(userAgentKey{}).(string)
	return ua
}

// RequestID returns the request id, or "" when not set.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// optional returns nil for an empty string so absent metadata is stored as NULL.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ClientIPPtr is ClientIP as a nullable column value.
func ClientIPPtr(ctx context.Context) *string {
	return optional(ClientIP(ctx))
}

// UserAgentPtr is UserAgent as a nullable column value.
func UserAgentPtr(ctx context.Context) *string {
	return optional(UserAgent(ctx))
}
