// Package registry manages the set of available rendering providers.
// It filters candidates by quality tier and required capabilities,
// scores the survivors on capability headroom, quality headroom,
// observed performance, and cost, and absorbs post-hoc generation
// outcomes so that future selections favor providers that actually
// deliver.
package registry
