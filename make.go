package container

import (
	"fmt"
	"reflect"
	"strconv"
)

// ── Type keys ─────────────────────────────────────────────────────────────────

// TypeKey returns the package-qualified type name of v — the container's
// canonical identifier for a Go type. Pointers are dereferenced, so a value
// and a pointer to it share a key.
//
//	container.TypeKey((*UserRepository)(nil))  // "myapp/repo.UserRepository"
func TypeKey(v any) string {
	return typeKeyOf(reflect.TypeOf(v))
}

func typeKeyOf(t reflect.Type) string {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}

// RegisterType makes T constructible through Make by a string identifier:
// its type key, plus any extra names given.
//
//	container.RegisterType[*PhotoController](c, "photos")
//	ctrl, err := c.Make("photos", nil)
func RegisterType[T any](c *Container, names ...string) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	c.mu.Lock()
	c.types[typeKeyOf(t)] = t
	for _, name := range names {
		c.types[name] = t
	}
	c.mu.Unlock()
}

// ── Auto-construction ─────────────────────────────────────────────────────────

// Make resolves abstract, auto-constructing it when it names no binding.
// Registered entries always win: if Has(abstract), Make is Get. Otherwise
// abstract must identify a type (see RegisterType); the type is constructed
// with params as explicit field overrides and the instance is cached, so a
// later Get or Make of the same identifier returns it again.
func (c *Container) Make(abstract string, params Params) (any, error) {
	return c.make(abstract, params, true)
}

// Build is Make without the caching: the constructed instance is returned
// uncached and a later Build produces a fresh one.
func (c *Container) Build(abstract string, params Params) (any, error) {
	return c.make(abstract, params, false)
}

func (c *Container) make(abstract string, params Params, share bool) (any, error) {
	if c.Has(abstract) {
		return c.Get(abstract)
	}

	c.mu.RLock()
	t, ok := c.types[abstract]
	c.mu.RUnlock()
	if !ok {
		return nil, containerErr("make", abstract, "identifier names no binding and no registered type", nil)
	}

	instance, err := c.construct(t, params)
	if err != nil {
		return nil, err
	}
	if share {
		c.Instance(abstract, instance)
	}
	c.logger.Debug("type constructed", "id", abstract, "shared", share)
	return instance, nil
}

// makeType is the reflect.Type entry point used for recursive dependency
// construction, caching under the type's key when share is true.
func (c *Container) makeType(t reflect.Type, params Params, share bool) (any, error) {
	key := typeKeyOf(t)
	if c.Has(key) {
		return c.Get(key)
	}
	instance, err := c.construct(t, params)
	if err != nil {
		return nil, err
	}
	if share {
		c.Instance(key, instance)
	}
	return instance, nil
}

// construct builds a struct value, resolving each exported field through the
// parameter ladder. Fields are the Go stand-in for constructor parameters:
//
//	type ReportService struct {
//	    Repo    *ReportRepo                  // by type, or recursively built
//	    Source  string `container:"source"`  // by override or named entry
//	    Retries int    `default:"3"`
//	    cache   map[string]any               // unexported: untouched
//	}
//
// A `container:"-"` tag excludes a field. A struct with no injectable fields
// is instantiated directly, without consulting the registry.
func (c *Container) construct(t reflect.Type, params Params) (any, error) {
	elem := t
	if elem.Kind() == reflect.Ptr {
		elem = elem.Elem()
	}
	if elem.Kind() != reflect.Struct {
		return nil, containerErr("make", typeKeyOf(t), fmt.Sprintf("cannot construct %s", t.Kind()), nil)
	}

	fields, err := structParams(elem)
	if err != nil {
		return nil, err
	}

	ptr := reflect.New(elem)
	if len(fields) > 0 {
		descs := make([]Param, len(fields))
		for i, f := range fields {
			descs[i] = f.Param
		}
		args, err := c.resolveParams("make", descs, params)
		if err != nil {
			return nil, containerErr("make", typeKeyOf(t), "field resolution failed", err)
		}
		for i, f := range fields {
			ptr.Elem().Field(f.index).Set(args[i])
		}
	}

	if t.Kind() == reflect.Ptr {
		return ptr.Interface(), nil
	}
	return ptr.Elem().Interface(), nil
}

// Construct builds T through the container, sharing the instance under its
// type key. The generic counterpart of Make for types never registered by
// name.
//
//	svc, err := container.Construct[*ReportService](c, container.Params{"source": "s3"})
func Construct[T any](c *Container, params Params) (T, error) {
	var zero T
	t := reflect.TypeOf(&zero).Elem()
	v, err := c.makeType(t, params, true)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, containerErr("make", typeKeyOf(t), fmt.Sprintf("constructed %T, want %T", v, zero), nil)
	}
	return typed, nil
}

// ── Field descriptors ─────────────────────────────────────────────────────────

type fieldParam struct {
	Param
	index int
}

func structParams(t reflect.Type) ([]fieldParam, error) {
	var out []fieldParam
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := lowerFirst(f.Name)
		if tag, ok := f.Tag.Lookup("container"); ok {
			if tag == "-" {
				continue
			}
			name = tag
		}
		p := Param{Name: name, Type: f.Type}
		if def, ok := f.Tag.Lookup("default"); ok {
			v, err := parseDefault(def, f.Type)
			if err != nil {
				return nil, containerErr("make", typeKeyOf(t), fmt.Sprintf("field %s has a bad default", f.Name), err)
			}
			p.HasDefault = true
			p.Default = v
		}
		out = append(out, fieldParam{Param: p, index: i})
	}
	return out, nil
}

// parseDefault interprets a `default:"..."` tag for the field's kind.
func parseDefault(raw string, t reflect.Type) (any, error) {
	switch t.Kind() {
	case reflect.String:
		return raw, nil
	case reflect.Bool:
		return strconv.ParseBool(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(n).Convert(t).Interface(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(n).Convert(t).Interface(), nil
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(n).Convert(t).Interface(), nil
	default:
		return nil, fmt.Errorf("default tags are not supported for %s fields", t.Kind())
	}
}
