// Package kv provides the key-value persistence behind staging documents.
package kv

import "context"

// Store persists opaque values by key. Get reports ok=false for absent keys.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
