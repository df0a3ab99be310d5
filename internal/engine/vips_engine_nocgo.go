//go:build !cgo

package engine

import "fmt"

// newVipsEngine is the no-cgo stub: govips requires cgo, so a binary built
// without it reports the native engine unavailable and the provider falls
// through to the pure-Go engine.
func newVipsEngine() (Engine, error) {
	return nil, fmt.Errorf("libvips startup failed: built without cgo")
}
