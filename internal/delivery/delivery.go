// Package delivery defines the contract every transport server of the
// application satisfies.
package delivery

import "context"

// Delivery is one serving surface of the application. Serve blocks until
// the server stops; shutdown is driven through the lifecycle hooks.
type Delivery interface {
	Serve(ctx context.Context) error
}
