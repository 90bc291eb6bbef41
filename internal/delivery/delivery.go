// Package delivery defines the transport-agnostic contract every server
// delivery implements.
package delivery

import "context"

// Delivery is a server surface that can be started and serves until its
// lifecycle ends.
type Delivery interface {
	Serve(ctx context.Context) error
}
