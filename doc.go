// Package container provides a string-keyed service container with lazy
// resolution, aliasing, interface bindings, reflective auto-construction,
// and dependency-injected invocation.
//
// # Overview
//
// Entries are registered under opaque string identifiers and resolved through
// a layered lookup: alias and interface indirection first, then the singleton
// cache, then lazy invocation of the raw binding. Struct types never
// registered at all can still be produced — the container inspects their
// exported fields and resolves each one recursively.
//
// # Bindings
//
//	c := container.New()
//
//	// Direct value — stored as-is
//	c.Set("greeting", "hello")
//
//	// Lazy value — invoked on first Get, cached afterwards
//	c.Set("cache", func(c *container.Container) any {
//	    return cache.NewRedis(container.MustResolve[*config.Config](c, "config"))
//	})
//
//	// Factory — invoked on every Get, never cached
//	c.Factory("request-id", func(c *container.Container) any { return newID() })
//
//	// Pre-built instance
//	c.Instance("config", cfg)
//
//	// Alias
//	_ = c.Alias("cache", "store")
//
//	// Interface binding
//	_ = c.BindInterface("cache", (*Store)(nil))
//
// # Resolving
//
//	raw, err := c.Get("cache")
//	store, err := container.Resolve[Store](c, container.TypeKey((*Store)(nil)))
//
// # Auto-construction
//
// A struct's exported fields play the role of constructor parameters. Each
// field resolves, in priority order: an explicit override under the field's
// name, a container entry under the field's name, a container entry under the
// field's type key, recursive construction of the field's type, the field's
// `default:"..."` tag. Explicit overrides always win.
//
//	type ReportService struct {
//	    Repo    *ReportRepo
//	    Source  string `container:"source"`
//	    Retries int    `default:"3"`
//	}
//
//	container.RegisterType[*ReportService](c, "reports")
//	svc, err := c.Make("reports", container.Params{"source": "s3"})
//
// Make caches the instance under its identifier; Build returns a fresh,
// uncached instance each time.
//
// # Calling
//
// Call accepts a func value, an []any{target, "Method"} pair, or a bare
// identifier whose instance exposes a conventional Invoke method, and
// resolves every parameter of the normalized target the same way Make
// resolves fields:
//
//	out, err := c.Call([]any{"reports", "Generate"}, container.Params{"option": opt})
//
// # Service providers
//
// Related bindings group into ServiceProviders managed by a ProviderRegistry;
// see the examples directory for a full application bootstrap.
package container
