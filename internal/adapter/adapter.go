package adapter

// Adapter represents a host runtime for the bridge
type Adapter interface {
	// Start runs the host until it completes. Lambda hosts never return.
	Start() error
}
