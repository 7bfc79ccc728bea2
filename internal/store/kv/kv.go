// Package kv provides the durable key-value storage the local expense
// variant and the theme preference sit on. The handle is constructor
// injected so tests can substitute the in-memory implementation.
package kv

import "context"

// Store is a small string key-value contract.
type Store interface {
	// Get returns the value for key and whether the key exists.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}
