// Package catalog implements the album and song catalogs. Reads go
// through the cache-aside helpers in the cache package; every mutation
// invalidates exactly the album projections it touches before the call
// returns.
package catalog

import "github.com/google/uuid"

// newID builds a prefixed opaque identifier, e.g. "album-<uuid>".
func newID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}
