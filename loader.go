package graft

// Loader turns a discovered module resource into its value. Load is called
// at most once per resource, lazily: only after some handler's pattern has
// matched the resource path and before the first callback is invoked.
type Loader interface {
	Load(r Resource) (any, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(r Resource) (any, error)

// Load calls f(r).
func (f LoaderFunc) Load(r Resource) (any, error) {
	return f(r)
}
