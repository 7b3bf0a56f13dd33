package container

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	items map[string]string
}

func newMemStore() *memStore {
	return &memStore{items: make(map[string]string)}
}

//
// -----------------------------------------------------------------------------
// Has / Set / Instance
// -----------------------------------------------------------------------------

func TestHas_UnregisteredIsFalse(t *testing.T) {
	t.Parallel()

	c := New()
	assert.False(t, c.Has("nothing"))
}

func TestHas_TrueAfterEachRegistrationKind(t *testing.T) {
	t.Parallel()

	c := New()

	c.Set("direct", 1)
	assert.True(t, c.Has("direct"))

	c.Factory("fresh", func(c *Container) any { return 1 })
	assert.True(t, c.Has("fresh"))

	c.Instance("built", newMemStore())
	assert.True(t, c.Has("built"))

	require.NoError(t, c.Alias("direct", "indirect"))
	assert.True(t, c.Has("indirect"))

	require.NoError(t, c.BindInterface("built", (*greeter)(nil)))
	assert.True(t, c.Has(TypeKey((*greeter)(nil))))
}

func TestGet_DirectValue(t *testing.T) {
	t.Parallel()

	c := New()
	c.Set("answer", 42)

	v, err := c.Get("answer")
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestGet_NotFound(t *testing.T) {
	t.Parallel()

	c := New()

	_, err := c.Get("missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var nf *EntryNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "missing", nf.ID)
}

func TestInstance_BypassesInvocation(t *testing.T) {
	t.Parallel()

	c := New()
	fn := func(c *Container) any { return "should not run" }
	c.Instance("fn", fn)

	v, err := c.Get("fn")
	require.NoError(t, err)
	// Stored as a pre-built value, the func itself comes back.
	assert.NotNil(t, v)
	assert.IsType(t, fn, v)
}

//
// -----------------------------------------------------------------------------
// Lazy invocation and caching
// -----------------------------------------------------------------------------

func TestGet_LazyBindingInvokedOnceAndCached(t *testing.T) {
	t.Parallel()

	c := New()
	calls := 0
	c.Set("store", func(c *Container) any {
		calls++
		return newMemStore()
	})

	first, err := c.Get("store")
	require.NoError(t, err)
	second, err := c.Get("store")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestGet_ZeroArgBinding(t *testing.T) {
	t.Parallel()

	c := New()
	c.Set("store", func() any { return newMemStore() })

	v, err := c.Get("store")
	require.NoError(t, err)
	assert.IsType(t, &memStore{}, v)
}

func TestGet_BindingReceivesContainer(t *testing.T) {
	t.Parallel()

	c := New()
	c.Set("inner", "nested")
	c.Set("outer", func(c *Container) any {
		return MustResolve[string](c, "inner") + "!"
	})

	v, err := c.Get("outer")
	require.NoError(t, err)
	assert.Equal(t, "nested!", v)
}

func TestGet_BindingErrorWrapped(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	c := New()
	c.Set("bad", func(c *Container) (any, error) { return nil, boom })

	_, err := c.Get("bad")
	require.Error(t, err)
	assert.True(t, IsContainerError(err))
	assert.ErrorIs(t, err, boom)
}

func TestGet_BindingWithForeignSignatureRejected(t *testing.T) {
	t.Parallel()

	c := New()
	c.Set("bad", func(n int) any { return n })

	_, err := c.Get("bad")
	require.Error(t, err)
	assert.True(t, IsContainerError(err))
}

func TestFactory_FreshValueEveryGet(t *testing.T) {
	t.Parallel()

	c := New()
	c.Factory("store", func(c *Container) any { return newMemStore() })

	first, err := c.Get("store")
	require.NoError(t, err)
	second, err := c.Get("store")
	require.NoError(t, err)

	assert.NotSame(t, first, second)
}

//
// -----------------------------------------------------------------------------
// Aliases
// -----------------------------------------------------------------------------

func TestAlias_Transparent(t *testing.T) {
	t.Parallel()

	c := New()
	c.Set("store", func(c *Container) any { return newMemStore() })
	require.NoError(t, c.Alias("store", "kv"))

	direct, err := c.Get("store")
	require.NoError(t, err)
	aliased, err := c.Get("kv")
	require.NoError(t, err)

	assert.Same(t, direct, aliased)
}

func TestAlias_ChainsFollowedTransitively(t *testing.T) {
	t.Parallel()

	c := New()
	c.Set("store", 7)
	require.NoError(t, c.Alias("store", "kv"))
	require.NoError(t, c.Alias("kv", "cache"))

	v, err := c.Get("cache")
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestAlias_UnboundTarget(t *testing.T) {
	t.Parallel()

	c := New()
	err := c.Alias("ghost", "g")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestAlias_CycleFails(t *testing.T) {
	t.Parallel()

	c := New()
	c.Set("x", 1)
	require.NoError(t, c.Alias("x", "y"))
	// Rebind "x" as an alias of "y": x → y → x.
	require.NoError(t, c.Alias("y", "x"))

	_, err := c.Get("x")
	require.Error(t, err)
	assert.True(t, IsContainerError(err))
	assert.Contains(t, err.Error(), "cycle")
}

//
// -----------------------------------------------------------------------------
// Interface bindings
// -----------------------------------------------------------------------------

type greeter interface {
	Greet() string
}

type englishGreeter struct{}

func (g *englishGreeter) Greet() string { return "hello" }

func TestBindInterface_Transparent(t *testing.T) {
	t.Parallel()

	c := New()
	c.Set("greeter.en", func(c *Container) any { return &englishGreeter{} })
	require.NoError(t, c.BindInterface("greeter.en", (*greeter)(nil)))

	byID, err := c.Get("greeter.en")
	require.NoError(t, err)
	byIface, err := c.Get(TypeKey((*greeter)(nil)))
	require.NoError(t, err)

	assert.Same(t, byID, byIface)

	g, err := Resolve[greeter](c, TypeKey((*greeter)(nil)))
	require.NoError(t, err)
	assert.Equal(t, "hello", g.Greet())
}

func TestBindInterface_NotAnInterface(t *testing.T) {
	t.Parallel()

	c := New()
	c.Set("store", newMemStore())

	err := c.BindInterface("store", (*memStore)(nil))
	require.Error(t, err)
	assert.True(t, IsContainerError(err))

	err = c.BindInterface("store", "not even a pointer")
	require.Error(t, err)
	assert.True(t, IsContainerError(err))
}

func TestBindInterface_UnboundTarget(t *testing.T) {
	t.Parallel()

	c := New()
	err := c.BindInterface("ghost", (*greeter)(nil))
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

//
// -----------------------------------------------------------------------------
// Self binding and typed resolution
// -----------------------------------------------------------------------------

func TestContainer_BindsItself(t *testing.T) {
	t.Parallel()

	c := New()

	self, err := c.Get("container")
	require.NoError(t, err)
	assert.Same(t, c, self)

	typed, err := Resolve[*Container](c, TypeKey(c))
	require.NoError(t, err)
	assert.Same(t, c, typed)
}

func TestResolve_TypeMismatch(t *testing.T) {
	t.Parallel()

	c := New()
	c.Set("answer", 42)

	_, err := Resolve[string](c, "answer")
	require.Error(t, err)
	assert.True(t, IsContainerError(err))
}

func TestMustResolve_PanicsOnMissing(t *testing.T) {
	t.Parallel()

	c := New()
	assert.Panics(t, func() { MustResolve[int](c, "missing") })
}

//
// -----------------------------------------------------------------------------
// Error values
// -----------------------------------------------------------------------------

func TestErrors_Formatting(t *testing.T) {
	t.Parallel()

	nf := &EntryNotFoundError{ID: "db"}
	assert.Equal(t, "container: no entry registered for [db]", nf.Error())

	cause := errors.New("kaput")
	ce := &ContainerError{Op: "make", ID: "db", Message: "construction failed", Cause: cause}
	assert.Equal(t, "container: make [db]: construction failed: kaput", ce.Error())
	assert.Same(t, cause, errors.Unwrap(ce))

	assert.False(t, IsNotFound(ce))
	assert.False(t, IsContainerError(nf))
}
