// Package localstore provides the profile-local persistence channel for
// the cart: a single fixed key whose value is overwritten in full on
// every write. Concurrent writers are not coordinated; the last writer
// wins, which matches the browser-profile contract the storefront runs
// under.
package localstore

import "context"

// Storage is a fixed-key blob store.
//
// Load returns nil data (and a nil error) when nothing has been stored
// under the key yet. Save overwrites the entire value; there are no
// partial or delta writes.
type Storage interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}
