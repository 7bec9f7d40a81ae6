package runtime

// RuntimeCollection is an ordered pool of backend integrations. Insertion
// order is significant: selection is first-fit, never best-fit. The
// collection is append-only; it never owns execution state.
type RuntimeCollection struct {
	runtimes []IntegrationRuntime
}

// NewCollection builds a collection from a list of runtimes.
func NewCollection(runtimes []IntegrationRuntime) *RuntimeCollection {
	return &RuntimeCollection{runtimes: runtimes}
}

// CollectionFrom builds a collection holding a single runtime.
func CollectionFrom(rt IntegrationRuntime) *RuntimeCollection {
	return NewCollection([]IntegrationRuntime{rt})
}

// Add appends a runtime to the end of the collection.
func (c *RuntimeCollection) Add(rt IntegrationRuntime) {
	c.runtimes = append(c.runtimes, rt)
}

// FindCapable fetches the first runtime, in insertion order, that is
// currently valid and declares support for the requested features. Validity
// is re-checked on every call, never cached. Returns nil when no runtime
// qualifies.
func (c *RuntimeCollection) FindCapable(features QuantumFeatures) IntegrationRuntime {
	for _, rt := range c.runtimes {
		if rt.IsValid() && rt.HasFeatures(features) {
			return rt
		}
	}
	return nil
}

// Len returns the number of pooled runtimes.
func (c *RuntimeCollection) Len() int {
	return len(c.runtimes)
}
