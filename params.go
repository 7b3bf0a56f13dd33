package container

import (
	"fmt"
	"reflect"
)

// Params carries explicit override values for parameter resolution, keyed by
// parameter name.
type Params map[string]any

// Param describes a single formal parameter: its name (empty when the
// signature does not expose one), its declared type, and an optional default.
type Param struct {
	Name       string
	Type       reflect.Type
	HasDefault bool
	Default    any
}

// ── Resolution ladder ─────────────────────────────────────────────────────────

// resolveParam resolves one parameter against the container, in strict
// priority order:
//
//  1. an explicit override under the parameter's name
//  2. a container entry registered under the parameter's name
//  3. a container entry registered under the parameter's type key
//  4. the declared default, for built-in (non-injectable) types
//  5. recursive auto-construction of the parameter's type
//  6. the declared default
//  7. nothing — found is false and the caller uses the type's zero value
//
// Explicit overrides beat name-based lookup, which beats type-based lookup,
// which beats auto-construction, which beats defaults. Success is reported
// through found, never inferred from the value: a legitimately resolved zero
// or empty value does not re-trigger the fallback chain.
func (c *Container) resolveParam(p Param, overrides Params) (value any, found bool, err error) {
	if p.Name != "" {
		if v, ok := overrides[p.Name]; ok {
			return v, true, nil
		}
		if c.Has(p.Name) {
			v, err := c.Get(p.Name)
			if err != nil {
				return nil, false, err
			}
			return v, true, nil
		}
	}

	injectable := isInjectable(p.Type)
	if injectable {
		if key := typeKeyOf(p.Type); c.Has(key) {
			v, err := c.Get(key)
			if err != nil {
				return nil, false, err
			}
			return v, true, nil
		}
	}

	if !injectable && p.HasDefault {
		return p.Default, true, nil
	}

	if constructible(p.Type) {
		v, err := c.makeType(p.Type, overrides, true)
		if err != nil {
			return nil, false, err
		}
		return v, true, nil
	}

	if p.HasDefault {
		return p.Default, true, nil
	}
	return nil, false, nil
}

// resolveParams resolves a full descriptor list into an ordered argument
// list. Unresolved parameters become their type's zero value.
func (c *Container) resolveParams(op string, descs []Param, overrides Params) ([]reflect.Value, error) {
	args := make([]reflect.Value, len(descs))
	for i, p := range descs {
		v, found, err := c.resolveParam(p, overrides)
		if err != nil {
			return nil, err
		}
		if !found {
			args[i] = reflect.Zero(p.Type)
			continue
		}
		rv := reflect.ValueOf(v)
		switch {
		case !rv.IsValid():
			args[i] = reflect.Zero(p.Type)
		case rv.Type().AssignableTo(p.Type):
			args[i] = rv
		case rv.Type().ConvertibleTo(p.Type):
			args[i] = rv.Convert(p.Type)
		default:
			return nil, containerErr(op, p.Name, fmt.Sprintf("cannot use %T as %s", v, p.Type), nil)
		}
	}
	return args, nil
}

// ── Type classification ───────────────────────────────────────────────────────

// isInjectable reports whether t is the kind of type the container resolves
// by type key: a struct, a pointer to struct, or an interface. Everything
// else (scalars, slices, maps, funcs, ...) counts as built-in.
func isInjectable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Struct, reflect.Interface:
		return true
	case reflect.Ptr:
		return t.Elem().Kind() == reflect.Struct
	default:
		return false
	}
}

// constructible reports whether t can be auto-constructed: a struct or a
// pointer to struct. Interfaces need an explicit binding.
func constructible(t reflect.Type) bool {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

// paramName derives an effective name for a parameter whose signature does
// not expose one: the lower-camel short name of its declared type, so that
// a method parameter of type Option can still be overridden under "option".
// Unnamed and built-in types stay anonymous.
func paramName(t reflect.Type) string {
	e := t
	if e.Kind() == reflect.Ptr {
		e = e.Elem()
	}
	if e.PkgPath() == "" || e.Name() == "" {
		return ""
	}
	return lowerFirst(e.Name())
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	if r[0] >= 'A' && r[0] <= 'Z' {
		r[0] += 'a' - 'A'
	}
	return string(r)
}
