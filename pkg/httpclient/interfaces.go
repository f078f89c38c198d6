package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
)

// Envelope wraps a completed exchange whose status was in the 2xx range.
type Envelope[T any] struct {
	Body       T
	StatusCode int
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
// Every failed exchange surfaces as *TransportError.
type Client interface {
	Get(ctx context.Context, path string, useCache bool) (Envelope[json.RawMessage], error)
	Post(ctx context.Context, path string, body any) (Envelope[json.RawMessage], error)
	Put(ctx context.Context, path string, body any) (Envelope[json.RawMessage], error)
	Delete(ctx context.Context, path string) (Envelope[json.RawMessage], error)
}

// Get performs a GET through c and decodes the body into T.
func Get[T any](ctx context.Context, c Client, path string, useCache bool) (Envelope[T], error) {
	env, err := c.Get(ctx, path, useCache)
	if err != nil {
		return Envelope[T]{}, err
	}
	return Decode[T](env)
}

// Post performs a POST through c and decodes the body into T.
func Post[T any](ctx context.Context, c Client, path string, body any) (Envelope[T], error) {
	env, err := c.Post(ctx, path, body)
	if err != nil {
		return Envelope[T]{}, err
	}
	return Decode[T](env)
}

// Put performs a PUT through c and decodes the body into T.
func Put[T any](ctx context.Context, c Client, path string, body any) (Envelope[T], error) {
	env, err := c.Put(ctx, path, body)
	if err != nil {
		return Envelope[T]{}, err
	}
	return Decode[T](env)
}

// Delete performs a DELETE through c and decodes the body into T.
func Delete[T any](ctx context.Context, c Client, path string) (Envelope[T], error) {
	env, err := c.Delete(ctx, path)
	if err != nil {
		return Envelope[T]{}, err
	}
	return Decode[T](env)
}

// Decode converts a raw envelope into a typed one. Decode failures are plain
// errors, not *TransportError: the exchange itself succeeded.
func Decode[T any](env Envelope[json.RawMessage]) (Envelope[T], error) {
	var out T
	if err := json.Unmarshal(env.Body, &out); err != nil {
		return Envelope[T]{}, fmt.Errorf("decode response body: %w", err)
	}
	return Envelope[T]{Body: out, StatusCode: env.StatusCode}, nil
}
