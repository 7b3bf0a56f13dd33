package container

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"
)

// Factory is an invocable binding that builds a concrete value from the
// container. Any func accepting at most the container and returning a value
// (optionally with a trailing error) is accepted by Set and Factory; this
// type is the conventional shape.
type Factory func(c *Container) any

// ── Container ─────────────────────────────────────────────────────────────────

// Container is a string-keyed service container. Entries are registered under
// opaque identifiers (which may coincide with type keys, see TypeKey) and
// resolved through a layered lookup: alias and interface indirection first,
// then the singleton cache, then lazy invocation of the raw binding.
//
// The container also auto-constructs struct types that were never registered,
// resolving their exported fields recursively — see Make and RegisterType.
type Container struct {
	mu     sync.RWMutex
	reg    *registry
	types  map[string]reflect.Type
	logger *slog.Logger
}

// Option configures a Container at construction time.
type Option func(*Container)

// WithLogger sets the container's logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Container) { c.logger = l }
}

// New creates an empty container. The container binds itself under the
// identifier "container" and under its own type key, so factories and
// auto-constructed values can depend on it like any other entry.
func New(opts ...Option) *Container {
	c := &Container{
		reg:    newRegistry(),
		types:  make(map[string]reflect.Type),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Instance("container", c)
	c.Instance(TypeKey(c), c)
	return c
}

// ── Registration ──────────────────────────────────────────────────────────────

// Set stores or overwrites a direct binding. If value is invocable it is
// called lazily on the first Get, with the container as its sole argument,
// and the result is cached; otherwise value itself is the entry.
func (c *Container) Set(id string, value any) {
	c.mu.Lock()
	c.reg.set(id, value)
	c.mu.Unlock()
	c.logger.Debug("entry bound", "id", id)
}

// Factory stores fn as the binding for id and marks it as a factory: fn is
// invoked on every Get and its result is never cached.
func (c *Container) Factory(id string, fn any) {
	c.mu.Lock()
	c.reg.setFactory(id, fn)
	c.mu.Unlock()
	c.logger.Debug("factory bound", "id", id)
}

// Instance stores a pre-built value straight into the singleton cache,
// bypassing invocation entirely.
func (c *Container) Instance(id string, value any) {
	c.mu.Lock()
	c.reg.setResolved(id, value)
	c.mu.Unlock()
}

// Alias registers alias as an alternative identifier for id. The target must
// already be bound; otherwise an EntryNotFoundError is returned.
func (c *Container) Alias(id, alias string) error {
	if !c.Has(id) {
		return notFound(id)
	}
	c.mu.Lock()
	c.reg.setAlias(id, alias)
	c.mu.Unlock()
	return nil
}

// BindInterface registers id as the implementation to resolve when the given
// interface is requested. The interface is passed as a nil interface pointer:
//
//	c.BindInterface("mailer.smtp", (*Mailer)(nil))
//	m, err := container.Resolve[Mailer](c, container.TypeKey((*Mailer)(nil)))
//
// A ContainerError is returned if iface does not denote an interface type,
// and an EntryNotFoundError if id is unbound.
func (c *Container) BindInterface(id string, iface any) error {
	t := reflect.TypeOf(iface)
	if t == nil || t.Kind() != reflect.Ptr || t.Elem().Kind() != reflect.Interface {
		return containerErr("bind-interface", id, fmt.Sprintf("%T is not an interface pointer", iface), nil)
	}
	if !c.Has(id) {
		return notFound(id)
	}
	key := typeKeyOf(t.Elem())
	c.mu.Lock()
	c.reg.setInterface(id, key)
	c.mu.Unlock()
	c.logger.Debug("interface bound", "interface", key, "id", id)
	return nil
}

// Has reports whether id is registered: a direct entry, a cached value, an
// interface binding or an alias. The check is shallow — alias and interface
// targets are not chased.
func (c *Container) Has(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reg.has(id)
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Get resolves id to a concrete value.
//
// Aliases and interface bindings are followed transitively (a cycle fails
// with a ContainerError). A raw invocable binding is called with the
// container as its sole argument on first resolution; unless id is marked as
// a factory, the result is cached and every later Get returns the identical
// value.
func (c *Container) Get(id string) (any, error) {
	return c.get(id, nil)
}

func (c *Container) get(id string, seen map[string]bool) (any, error) {
	if !c.Has(id) {
		return nil, notFound(id)
	}

	c.mu.RLock()
	target, indirect := c.reg.aliases[id]
	if !indirect {
		target, indirect = c.reg.interfaces[id]
	}
	c.mu.RUnlock()

	if indirect {
		if seen == nil {
			seen = make(map[string]bool)
		}
		seen[id] = true
		if seen[target] {
			return nil, containerErr("get", id, fmt.Sprintf("alias cycle through [%s]", target), nil)
		}
		return c.get(target, seen)
	}

	c.mu.RLock()
	if v, ok := c.reg.resolved[id]; ok {
		c.mu.RUnlock()
		return v, nil
	}
	raw := c.reg.entries[id]
	factory := c.reg.isFactory(id)
	c.mu.RUnlock()

	value, err := c.invokeBinding(id, raw)
	if err != nil {
		return nil, err
	}

	if !factory {
		c.mu.Lock()
		c.reg.setResolved(id, value)
		c.mu.Unlock()
	}
	c.logger.Debug("entry resolved", "id", id, "factory", factory)
	return value, nil
}

// invokeBinding realizes a raw entry: non-funcs are returned as-is, funcs are
// called with the container as their sole argument (or none).
func (c *Container) invokeBinding(id string, raw any) (any, error) {
	switch fn := raw.(type) {
	case Factory:
		return fn(c), nil
	case func(*Container) any:
		return fn(c), nil
	case func(*Container) (any, error):
		v, err := fn(c)
		if err != nil {
			return nil, containerErr("get", id, "bound callable failed", err)
		}
		return v, nil
	}

	v := reflect.ValueOf(raw)
	if !v.IsValid() || v.Kind() != reflect.Func {
		return raw, nil
	}

	t := v.Type()
	var args []reflect.Value
	switch t.NumIn() {
	case 0:
	case 1:
		if !reflect.TypeOf(c).AssignableTo(t.In(0)) {
			return nil, containerErr("get", id, fmt.Sprintf("bound callable wants %s, only the container can be supplied", t.In(0)), nil)
		}
		args = []reflect.Value{reflect.ValueOf(c)}
	default:
		return nil, containerErr("get", id, "bound callable must accept at most the container", nil)
	}

	out, err := callResults("get", id, v, args)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// callResults invokes fn and folds its return values: a trailing non-nil
// error return fails the operation, the first value (if any) is the result.
func callResults(op, id string, fn reflect.Value, args []reflect.Value) (any, error) {
	var out []reflect.Value
	if fn.Type().IsVariadic() {
		out = fn.CallSlice(args)
	} else {
		out = fn.Call(args)
	}
	if n := len(out); n > 0 {
		if last := out[n-1]; last.Type() == errorType && !last.IsNil() {
			return nil, containerErr(op, id, "callable failed", last.Interface().(error))
		}
	}
	if len(out) == 0 || out[0].Type() == errorType {
		return nil, nil
	}
	return out[0].Interface(), nil
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// ── Generics helpers ──────────────────────────────────────────────────────────

// Resolve resolves id and type-asserts the result.
//
//	cache, err := container.Resolve[*RedisCache](c, "cache")
func Resolve[T any](c *Container, id string) (T, error) {
	var zero T
	v, err := c.Get(id)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, containerErr("get", id, fmt.Sprintf("entry resolved to %T, want %T", v, zero), nil)
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on failure. Intended for bootstrap
// code where a missing binding is a programming error.
func MustResolve[T any](c *Container, id string) T {
	v, err := Resolve[T](c, id)
	if err != nil {
		panic(err)
	}
	return v
}
