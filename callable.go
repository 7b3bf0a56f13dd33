package container

import (
	"fmt"
	"reflect"
)

// DefaultMethod is the conventional entry point invoked when Call receives a
// bare type identifier or an instance instead of a function.
const DefaultMethod = "Invoke"

// ── Normalization ─────────────────────────────────────────────────────────────

type callableKind int

const (
	kindFunc callableKind = iota
	kindBoundMethod
	kindUnboundMethod
	kindInvokable
)

func (k callableKind) String() string {
	switch k {
	case kindFunc:
		return "func"
	case kindBoundMethod:
		return "bound-method"
	case kindUnboundMethod:
		return "unbound-method"
	default:
		return "invokable"
	}
}

// callable is a normalized invocation target: the reflect value to call plus
// the ordered descriptors of its parameters.
type callable struct {
	kind   callableKind
	fn     reflect.Value
	params []Param
}

// normalizeCallable reduces the heterogeneous shapes Call accepts into a
// callable. Shapes, in matching order:
//
//   - a func value
//   - []any{instance, "Method"} — a bound method
//   - []any{"identifier", "Method"} — the identifier is materialized via
//     Make, then the method is bound
//   - a bare identifier string — materialized via Make, then the default
//     method is bound
//   - anything else exposing the default method
func (c *Container) normalizeCallable(target any, defaultMethod string) (*callable, error) {
	if target == nil {
		return nil, containerErr("call", "", "nil is not callable", nil)
	}

	v := reflect.ValueOf(target)
	if v.Kind() == reflect.Func {
		if v.IsNil() {
			return nil, containerErr("call", "", "nil func is not callable", nil)
		}
		return &callable{kind: kindFunc, fn: v, params: funcParams(v.Type())}, nil
	}

	if pair, ok := target.([]any); ok {
		if len(pair) != 2 {
			return nil, containerErr("call", "", fmt.Sprintf("callable pair must have 2 elements, got %d", len(pair)), nil)
		}
		method, ok := pair[1].(string)
		if !ok {
			return nil, containerErr("call", "", fmt.Sprintf("callable pair method must be a string, got %T", pair[1]), nil)
		}
		if id, ok := pair[0].(string); ok {
			instance, err := c.Make(id, nil)
			if err != nil {
				return nil, containerErr("call", id, "cannot materialize callable target", err)
			}
			return c.methodCallable(kindUnboundMethod, id, instance, method)
		}
		return c.methodCallable(kindBoundMethod, "", pair[0], method)
	}

	if id, ok := target.(string); ok {
		instance, err := c.Make(id, nil)
		if err != nil {
			return nil, containerErr("call", id, "cannot materialize callable target", err)
		}
		return c.methodCallable(kindInvokable, id, instance, defaultMethod)
	}

	return c.methodCallable(kindInvokable, "", target, defaultMethod)
}

func (c *Container) methodCallable(kind callableKind, id string, instance any, method string) (*callable, error) {
	m := reflect.ValueOf(instance).MethodByName(method)
	if !m.IsValid() {
		if id == "" {
			id = fmt.Sprintf("%T", instance)
		}
		return nil, containerErr("call", id, fmt.Sprintf("no method %s", method), nil)
	}
	return &callable{kind: kind, fn: m, params: funcParams(m.Type())}, nil
}

// funcParams reflects a signature into descriptors. Go does not expose
// parameter names at runtime, so each parameter borrows its type's short
// name (see paramName); built-in and anonymous types stay nameless and are
// resolved by type only.
func funcParams(t reflect.Type) []Param {
	params := make([]Param, t.NumIn())
	for i := range params {
		in := t.In(i)
		params[i] = Param{Name: paramName(in), Type: in}
	}
	return params
}

// ── Call ──────────────────────────────────────────────────────────────────────

// Call normalizes target, resolves its parameters with params as explicit
// overrides, invokes it, and returns the result. When target is an
// identifier or instance rather than a function, method selects the entry
// point; it defaults to DefaultMethod.
//
//	out, err := c.Call([]any{reportController, "Show"}, container.Params{"id": 42})
//	out, err := c.Call("notifier", nil)               // notifier.Invoke(...)
//	out, err := c.Call("notifier", nil, "Flush")      // notifier.Flush(...)
//
// A trailing error return from the target is propagated wrapped in a
// ContainerError.
func (c *Container) Call(target any, params Params, method ...string) (any, error) {
	defaultMethod := DefaultMethod
	if len(method) > 0 && method[0] != "" {
		defaultMethod = method[0]
	}

	cb, err := c.normalizeCallable(target, defaultMethod)
	if err != nil {
		return nil, err
	}
	args, err := c.resolveParams("call", cb.params, params)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("callable invoked", "kind", cb.kind.String(), "params", len(args))
	return callResults("call", "", cb.fn, args)
}
