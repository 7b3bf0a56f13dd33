package container

// registry owns the container's binding tables. It is storage only — map
// reads, writes and membership checks; every decision about *how* an entry
// resolves lives in the Container. Access is serialized by the Container's
// lock, so none of these methods lock.
type registry struct {
	// id → raw binding (a plain value or something invocable)
	entries map[string]any

	// ids whose binding is re-invoked on every Get, never cached
	factories map[string]struct{}

	// id → concrete value (singleton cache)
	resolved map[string]any

	// alias → target id
	aliases map[string]string

	// interface type key → target id
	interfaces map[string]string
}

func newRegistry() *registry {
	return &registry{
		entries:    make(map[string]any),
		factories:  make(map[string]struct{}),
		resolved:   make(map[string]any),
		aliases:    make(map[string]string),
		interfaces: make(map[string]string),
	}
}

// set stores or overwrites a direct binding. Resolved and factory state for
// the id are left untouched.
func (r *registry) set(id string, value any) {
	r.entries[id] = value
}

// setFactory stores the binding and marks the id as a factory. Marking is
// idempotent.
func (r *registry) setFactory(id string, fn any) {
	r.entries[id] = fn
	r.factories[id] = struct{}{}
}

// setResolved stores a concrete value straight into the singleton cache.
func (r *registry) setResolved(id string, value any) {
	r.resolved[id] = value
}

// setAlias records alias → id. The caller validates that id is bound.
func (r *registry) setAlias(id, alias string) {
	r.aliases[alias] = id
}

// setInterface records an interface type key → id. The caller validates both
// the interface type and that id is bound.
func (r *registry) setInterface(id, ifaceKey string) {
	r.interfaces[ifaceKey] = id
}

// remove drops the raw entry and factory mark for id, leaving any resolved
// value in place. Used when a placeholder binding replaces itself.
func (r *registry) remove(id string) {
	delete(r.entries, id)
	delete(r.factories, id)
}

// has reports whether id is reachable through any table. The check is
// shallow: alias and interface targets are not chased here.
func (r *registry) has(id string) bool {
	if _, ok := r.entries[id]; ok {
		return true
	}
	if _, ok := r.resolved[id]; ok {
		return true
	}
	if _, ok := r.interfaces[id]; ok {
		return true
	}
	_, ok := r.aliases[id]
	return ok
}

func (r *registry) isFactory(id string) bool {
	_, ok := r.factories[id]
	return ok
}
