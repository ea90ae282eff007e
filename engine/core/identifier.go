package core

import "sync/atomic"

var lastEntityID atomic.Uint32

// IdentifierAquireNewID returns the next entity id. Ids start at 1 and are never reused.
func IdentifierAquireNewID() uint32 {
	return lastEntityID.Add(1)
}
