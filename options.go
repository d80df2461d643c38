package graft

// DefaultCleanupErrorCapacity is the default number of cleanup errors
// retained by a Runtime.
const DefaultCleanupErrorCapacity = 16

// config holds configuration options for a Runtime.
type config struct {
	errCap   int
	syncMode bool
	hook     func(stop func())
}

// Option configures a Runtime.
type Option func(*config)

// WithCleanupErrorCapacity sets how many cleanup errors the Runtime
// retains for CleanupErrors. Zero disables retention.
func WithCleanupErrorCapacity(n int) Option {
	return func(c *config) {
		c.errCap = n
	}
}

// WithSyncDiscovery enables synchronous discovery for testing. Subtree
// streams opened by AddDescendants are not pumped by a goroutine; call
// Process to drain pending events deterministically.
func WithSyncDiscovery() Option {
	return func(c *config) {
		c.syncMode = true
	}
}

// WithShutdownHook registers the Runtime against the host's shutdown
// notification. The hook receives a stop closure and must arrange for the
// host to invoke it exactly once before process exit.
func WithShutdownHook(hook func(stop func())) Option {
	return func(c *config) {
		c.hook = hook
	}
}

// RegisterOption configures a single handler registration.
type RegisterOption func(*registerConfig)

type registerConfig struct {
	priority *int
}

// WithPriority sets the handler's priority. Higher priorities are
// evaluated earlier; handlers without a priority are evaluated last, in
// registration order.
func WithPriority(p int) RegisterOption {
	return func(c *registerConfig) {
		c.priority = &p
	}
}
