package container

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups related bindings so an application can assemble its
// container from composable units.
//
// Every provider must implement at minimum Register(). Boot() is called after
// ALL providers have been registered, making it safe to resolve other
// bindings inside Boot().
//
//	type ReportProvider struct{ container.BaseProvider }
//
//	func (p *ReportProvider) Register(c *container.Container) {
//	    c.Set("reports", func(c *container.Container) any {
//	        return reports.New(container.MustResolve[*config.Config](c, "config"))
//	    })
//	}
type ServiceProvider interface {
	// Register binds services into the container.
	// Do NOT resolve other bindings here — use Boot() for that.
	Register(c *Container)

	// Boot is called after all providers are registered.
	// Safe to resolve and use any binding here.
	Boot(c *Container)

	// Provides returns the identifiers this provider registers. Used for
	// deferred (lazy) loading; return nil if the provider is always eager.
	Provides() []string

	// IsDeferred returns true if this provider should be loaded lazily —
	// only when one of its Provides() identifiers is first resolved.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct with no-op implementations of Boot(),
// Provides(), and IsDeferred(). Embed it and override only what you need.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container)  {}
func (p *BaseProvider) Provides() []string { return nil }
func (p *BaseProvider) IsDeferred() bool   { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry manages registration and booting of ServiceProviders,
// including deferred providers whose Register() runs on first resolution of
// one of their identifiers.
type ProviderRegistry struct {
	container  *Container
	eager      []ServiceProvider
	booted     bool
	registered map[ServiceProvider]bool
}

// NewProviderRegistry creates a registry bound to c.
func NewProviderRegistry(c *Container) *ProviderRegistry {
	return &ProviderRegistry{
		container:  c,
		registered: make(map[ServiceProvider]bool),
	}
}

// Register adds a provider and calls its Register() method, unless the
// provider is deferred — then a placeholder binding is installed for each of
// its identifiers and real registration waits for the first Get.
func (r *ProviderRegistry) Register(provider ServiceProvider) {
	if r.registered[provider] {
		return
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		r.interceptDeferred(provider)
		return
	}

	provider.Register(r.container)
	r.eager = append(r.eager, provider)

	// Late registration after Boot(): boot this provider immediately.
	if r.booted {
		provider.Boot(r.container)
	}
}

// interceptDeferred installs a factory placeholder per deferred identifier.
// The placeholder unbinds itself, runs the real Register(), and resolves the
// identifier again — this time against the provider's own binding, with that
// binding's caching semantics intact.
func (r *ProviderRegistry) interceptDeferred(provider ServiceProvider) {
	registered := false
	for _, id := range provider.Provides() {
		id := id
		r.container.Factory(id, func(c *Container) (any, error) {
			c.mu.Lock()
			for _, p := range provider.Provides() {
				c.reg.remove(p)
			}
			c.mu.Unlock()
			if !registered {
				registered = true
				provider.Register(c)
				if r.booted {
					provider.Boot(c)
				}
			}
			return c.Get(id)
		})
	}
}

// Boot calls Boot() on all eager providers. Must be called after ALL
// providers have been registered.
func (r *ProviderRegistry) Boot() {
	if r.booted {
		return
	}
	r.booted = true
	for _, provider := range r.eager {
		provider.Boot(r.container)
	}
}

// Booted returns true if Boot() has been called.
func (r *ProviderRegistry) Booted() bool { return r.booted }

// Providers returns all registered eager providers.
func (r *ProviderRegistry) Providers() []ServiceProvider { return r.eager }
