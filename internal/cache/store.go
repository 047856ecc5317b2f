// Package cache keeps raw fetched documents so repeated reads avoid the network.
package cache

import (
	"context"
	"time"
)

// Store persists document bodies by key.
//
// Get reports ok=false when the key is absent or older than maxAge.
// A maxAge of zero accepts an entry of any age.
type Store interface {
	Get(ctx context.Context, key string, maxAge time.Duration) (body []byte, ok bool, err error)
	Put(ctx context.Context, key string, body []byte) error
}

func expired(fetchedAt time.Time, maxAge time.Duration, now time.Time) bool {
	return maxAge > 0 && now.Sub(fetchedAt) > maxAge
}
