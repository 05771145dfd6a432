package health

import "context"

// Pinger probes one backend's availability.
type Pinger interface {
	Ping(ctx context.Context) error
}
