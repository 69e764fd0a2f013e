// Package kvstore provides the durable string key space the learning store persists to.
package kvstore

import (
	"context"
)

//go:generate mockgen -source=store.go -destination=../mocks/kvstore/mock_store.go -package=mock_kvstore

// Store is a string key-value space. Values are opaque to the store.
type Store interface {
	// Get returns found=false without an error when the key was never written.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}
