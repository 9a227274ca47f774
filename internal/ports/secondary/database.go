package secondary

import "context"

// DatabaseProber checks that a project's database accepts connections.
type DatabaseProber interface {
	// Ping connects with the driver ("pg", "mysql", "sqlite") and url.
	Ping(ctx context.Context, driver, url string) error
}
