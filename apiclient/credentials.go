package apiclient

import (
	"context"
	"net/http"
)

type credentialsKey struct{}

type requestIDKey struct{}

// WithCredentials returns a context carrying the API session cookies of the
// signed-in user. Requests made with this context send them along.
func WithCredentials(ctx context.Context, cookies []*http.Cookie) context.Context {
	return context.WithValue(ctx, credentialsKey{}, cookies)
}

// CredentialsFrom returns the cookies stored by WithCredentials.
func CredentialsFrom(ctx context.Context) []*http.Cookie {
	cookies, _ := ctx.Value(credentialsKey{}).([]*http.Cookie)
	return cookies
}

// WithRequestID tags outgoing requests with the id of the incoming request.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the id stored by WithRequestID.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
