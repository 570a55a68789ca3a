package hue

import "context"

// Transport sends a path relative to the bridge API root and returns the raw response body.
// It never interprets the body; decoding is up to the caller.
type Transport interface {
	Get(ctx context.Context, path string) ([]byte, error)
	Post(ctx context.Context, path string, body []byte) ([]byte, error)
	Put(ctx context.Context, path string, body []byte) ([]byte, error)
	Delete(ctx context.Context, path string) ([]byte, error)
}

// Compile-time check that HTTPTransport implements Transport
var _ Transport = (*HTTPTransport)(nil)
